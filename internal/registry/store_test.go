package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/slot"
	"github.com/toeirei/hwidmanager/internal/testutil"
)

// newTestStore returns a Store with deterministic ids and timestamps.
func newTestStore(t *testing.T, s slot.Slot) *Store {
	t.Helper()
	n := 0
	return New(s,
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
		WithTimestampFormat(func(t time.Time) string { return t.Format("02.01.2006, 15:04:05") }),
		WithUnknownPlayer("Nieznany"),
	)
}

func hwids(entries []model.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.HWID)
	}
	return out
}

func TestAdd_FirstEntry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())

	e, err := st.Add(ctx, "AB-12-CD", "Alice")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := model.Entry{ID: "id-1", HWID: "AB-12-CD", PlayerName: "Alice", DateAdded: "02.01.2026, 03:04:05", LastSeen: "02.01.2026, 03:04:05"}
	if e != want {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if got := st.Entries(); len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestAdd_TrimsAndDefaultsPlayer(t *testing.T) {
	st := newTestStore(t, slot.NewMemorySlot())
	e, err := st.Add(context.Background(), "  X1  ", "   ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.HWID != "X1" {
		t.Fatalf("expected trimmed hwid, got %q", e.HWID)
	}
	if e.PlayerName != "Nieznany" {
		t.Fatalf("expected unknown sentinel, got %q", e.PlayerName)
	}
}

func TestAdd_NewestFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())
	for _, h := range []string{"A", "B", "C"} {
		if _, err := st.Add(ctx, h, ""); err != nil {
			t.Fatalf("add %s: %v", h, err)
		}
	}
	if got := hwids(st.Entries()); !slices.Equal(got, []string{"C", "B", "A"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestAdd_RejectsBlank(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())
	if _, err := st.Add(ctx, "keep", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, in := range []string{"", " ", "\t\n  "} {
		_, err := st.Add(ctx, in, "Bob")
		if !errors.Is(err, ErrEmptyHWID) {
			t.Fatalf("Add(%q): expected ErrEmptyHWID, got %v", in, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != EmptyHWID {
			t.Fatalf("expected *ValidationError of kind EmptyHWID, got %v", err)
		}
		if st.Len() != 1 {
			t.Fatalf("list changed after rejected add: %d", st.Len())
		}
	}
}

func TestAdd_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())
	if _, err := st.Add(ctx, "X1", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := st.Add(ctx, "X1", "someone")
	if !errors.Is(err, ErrDuplicateHWID) {
		t.Fatalf("expected ErrDuplicateHWID, got %v", err)
	}
	if errors.Is(err, ErrEmptyHWID) {
		t.Fatalf("duplicate error must not match ErrEmptyHWID")
	}
	if st.Len() != 1 {
		t.Fatalf("expected length 1, got %d", st.Len())
	}
	// Uniqueness is case-sensitive and applies after trimming.
	if _, err := st.Add(ctx, " X1 ", ""); !errors.Is(err, ErrDuplicateHWID) {
		t.Fatalf("expected trimmed duplicate to be rejected, got %v", err)
	}
	if _, err := st.Add(ctx, "x1", ""); err != nil {
		t.Fatalf("expected differently-cased hwid to be accepted, got %v", err)
	}
}

func TestValidationError_Messages(t *testing.T) {
	if got := (&ValidationError{Kind: EmptyHWID}).Error(); got != "empty hwid" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&ValidationError{Kind: DuplicateHWID, HWID: "X1"}).Error(); got != `duplicate hwid: "X1"` {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFlakySlot()
	st := newTestStore(t, fs)
	a, _ := st.Add(ctx, "A", "")
	if _, err := st.Add(ctx, "B", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	found, err := st.Remove(ctx, a.ID)
	if err != nil || !found {
		t.Fatalf("first remove: found=%v err=%v", found, err)
	}
	writes := fs.Writes
	before := st.Entries()

	found, err = st.Remove(ctx, a.ID)
	if err != nil || found {
		t.Fatalf("second remove: found=%v err=%v", found, err)
	}
	if !slices.Equal(st.Entries(), before) {
		t.Fatalf("list changed on second remove")
	}
	if fs.Writes != writes {
		t.Fatalf("no-op remove should not write")
	}
	if got := hwids(st.Entries()); !slices.Equal(got, []string{"B"}) {
		t.Fatalf("unexpected list: %v", got)
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())
	_, _ = st.Add(ctx, "AAA-111", "Alice")
	_, _ = st.Add(ctx, "BBB-222", "bob")
	_, _ = st.Add(ctx, "CCC-333", "Carol")

	all := slices.Collect(st.Filter(""))
	if !slices.Equal(all, st.Entries()) {
		t.Fatalf("empty filter should return the full list in order")
	}

	cases := map[string][]string{
		"aaa":   {"AAA-111"},
		"BOB":   {"BBB-222"},
		"-":     {"CCC-333", "BBB-222", "AAA-111"},
		"a":     {"CCC-333", "AAA-111"},
		"zzz":   nil,
		"333":   {"CCC-333"},
		"carol": {"CCC-333"},
	}
	for term, want := range cases {
		got := hwids(slices.Collect(st.Filter(term)))
		if len(want) == 0 && len(got) == 0 {
			continue
		}
		if !slices.Equal(got, want) {
			t.Errorf("Filter(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestFilter_IsLazyAndRestartable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())
	seq := st.Filter("x")
	if n := len(slices.Collect(seq)); n != 0 {
		t.Fatalf("expected empty view, got %d", n)
	}
	_, _ = st.Add(ctx, "X1", "")
	if n := len(slices.Collect(seq)); n != 1 {
		t.Fatalf("expected view to reflect the add, got %d", n)
	}
	// Early termination stops iteration.
	_, _ = st.Add(ctx, "X2", "")
	count := 0
	for range seq {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected iteration to stop after break, got %d", count)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := slot.NewMemorySlot()
	st := newTestStore(t, mem)
	_, _ = st.Add(ctx, "A", "Alice")
	_, _ = st.Add(ctx, "B", "")
	_, _ = st.Add(ctx, "C", "Carol")

	fresh := New(mem)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !slices.Equal(fresh.Entries(), st.Entries()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", fresh.Entries(), st.Entries())
	}
}

func TestSave_WireFormat(t *testing.T) {
	ctx := context.Background()
	mem := slot.NewMemorySlot()
	st := newTestStore(t, mem)
	if err := st.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := mem.Read(ctx, st.Key())
	if string(raw) != "[]" {
		t.Fatalf("expected empty array, got %s", raw)
	}

	_, _ = st.Add(ctx, "AB-12-CD", "Alice")
	raw, _ = mem.Read(ctx, "minecraft-hwid-list")
	want := `[{"id":"id-1","hwid":"AB-12-CD","playerName":"Alice","dateAdded":"02.01.2026, 03:04:05","lastSeen":"02.01.2026, 03:04:05"}]`
	if string(raw) != want {
		t.Fatalf("unexpected wire format:\n got %s\nwant %s", raw, want)
	}
}

func TestLoad_MissingSlotIsEmpty(t *testing.T) {
	st := New(slot.NewMemorySlot())
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestLoad_CorruptSlotQuarantined(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":       `{{{`,
		"wrong shape":    `{"id":"1"}`,
		"missing hwid":   `[{"id":"1","hwid":" "}]`,
		"missing id":     `[{"hwid":"X"}]`,
		"duplicate hwid": `[{"id":"1","hwid":"X"},{"id":"2","hwid":"X"}]`,
		"duplicate id":   `[{"id":"1","hwid":"X"},{"id":"1","hwid":"Y"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := slot.NewMemorySlot()
			testutil.Seed(t, mem, "minecraft-hwid-list", raw)
			st := New(mem)

			err := st.Load(ctx)
			if !errors.Is(err, ErrCorruptSlot) {
				t.Fatalf("expected ErrCorruptSlot, got %v", err)
			}
			var cerr *CorruptSlotError
			if !errors.As(err, &cerr) || cerr.QuarantineKey != "minecraft-hwid-list.corrupt" {
				t.Fatalf("unexpected corrupt error: %v", err)
			}
			if st.Len() != 0 {
				t.Fatalf("expected empty list after corrupt load")
			}
			q, qerr := mem.Read(ctx, "minecraft-hwid-list.corrupt")
			if qerr != nil || string(q) != raw {
				t.Fatalf("quarantine copy missing or wrong: %q %v", q, qerr)
			}
			// The store stays usable.
			if _, err := st.Add(ctx, "NEW", ""); err != nil {
				t.Fatalf("add after corrupt load: %v", err)
			}
		})
	}
}

func TestLoad_NullIsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := slot.NewMemorySlot()
	testutil.Seed(t, mem, "minecraft-hwid-list", `null`)
	st := New(mem)
	if err := st.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestFailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFlakySlot()
	st := newTestStore(t, fs)
	a, _ := st.Add(ctx, "A", "")

	fs.FailWrites = true
	if _, err := st.Add(ctx, "B", ""); !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist on add, got %v", err)
	}
	if got := hwids(st.Entries()); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("add not rolled back: %v", got)
	}
	if _, err := st.Remove(ctx, a.ID); !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist on remove, got %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("remove not rolled back")
	}
	if err := st.Clear(ctx); !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist on clear, got %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("clear not rolled back")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	mem := slot.NewMemorySlot()
	st := newTestStore(t, mem)
	_, _ = st.Add(ctx, "A", "")
	_, _ = st.Add(ctx, "B", "")
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	raw, _ := mem.Read(ctx, st.Key())
	if string(raw) != "[]" {
		t.Fatalf("expected persisted empty array, got %s", raw)
	}
}

func TestReplace_Validates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, slot.NewMemorySlot())
	_, _ = st.Add(ctx, "KEEP", "")

	bad := []model.Entry{{ID: "1", HWID: "X"}, {ID: "2", HWID: "X"}}
	if err := st.Replace(ctx, bad); !errors.Is(err, ErrInvalidEntries) {
		t.Fatalf("expected ErrInvalidEntries, got %v", err)
	}
	if got := hwids(st.Entries()); !slices.Equal(got, []string{"KEEP"}) {
		t.Fatalf("invalid replace changed list: %v", got)
	}

	good := []model.Entry{{ID: "1", HWID: "X"}, {ID: "2", HWID: "Y"}}
	if err := st.Replace(ctx, good); err != nil {
		t.Fatalf("replace: %v", err)
	}
	good[0].HWID = "mutated"
	if got := hwids(st.Entries()); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("replace should copy input: %v", got)
	}
}

func TestFreshID_RegeneratesOnCollision(t *testing.T) {
	ctx := context.Background()
	ids := []string{"same", "same", "other"}
	st := New(slot.NewMemorySlot(), WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	a, err := st.Add(ctx, "A", "")
	if err != nil || a.ID != "same" {
		t.Fatalf("first add: %+v %v", a, err)
	}
	b, err := st.Add(ctx, "B", "")
	if err != nil || b.ID != "other" {
		t.Fatalf("expected regenerated id, got %+v %v", b, err)
	}
}

func TestNewID_SkipsIDsInUse(t *testing.T) {
	ids := []string{"", "a", "b"}
	st := New(slot.NewMemorySlot(), WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	id, err := st.NewID(func(id string) bool { return id == "a" })
	if err != nil || id != "b" {
		t.Fatalf("expected b, got %q %v", id, err)
	}

	st = New(slot.NewMemorySlot(), WithIDGenerator(func() string { return "x" }))
	if _, err := st.NewID(func(string) bool { return true }); err == nil {
		t.Fatalf("expected error when every id is in use")
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	st := New(slot.NewMemorySlot())
	seen := map[string]bool{}
	for i := range 50 {
		e, err := st.Add(ctx, fmt.Sprintf("HW-%d", i), "")
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if seen[e.ID] {
			t.Fatalf("id reused: %s", e.ID)
		}
		seen[e.ID] = true
		if e.DateAdded == "" || e.DateAdded != e.LastSeen {
			t.Fatalf("expected lastSeen == dateAdded, got %+v", e)
		}
		if e.PlayerName != model.UnknownPlayer {
			t.Fatalf("expected default sentinel, got %q", e.PlayerName)
		}
	}
}

func TestLoad_ReadFailureIsNotCorruption(t *testing.T) {
	fs := testutil.NewFlakySlot()
	testutil.Seed(t, fs, "minecraft-hwid-list", `[{"id":"1","hwid":"X"}]`)
	fs.FailReads = true

	st := New(fs)
	err := st.Load(context.Background())
	if !errors.Is(err, testutil.ErrInjected) || errors.Is(err, ErrCorruptSlot) {
		t.Fatalf("expected plain read error, got %v", err)
	}
	if _, qerr := fs.MemorySlot.Read(context.Background(), "minecraft-hwid-list.corrupt"); !errors.Is(qerr, slot.ErrNotFound) {
		t.Fatalf("read failures must not quarantine anything")
	}
}
