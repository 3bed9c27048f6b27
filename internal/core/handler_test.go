package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/registry"
	"github.com/toeirei/hwidmanager/internal/slot"
	"github.com/toeirei/hwidmanager/internal/testutil"
	"github.com/toeirei/hwidmanager/internal/view"
)

func TestMain(m *testing.M) {
	i18n.Init("en")
	os.Exit(m.Run())
}

type note struct {
	kind Kind
	msg  string
}

// recorder collects notifications.
type recorder struct{ notes []note }

func (r *recorder) Notify(kind Kind, msg string) { r.notes = append(r.notes, note{kind, msg}) }

func (r *recorder) last(t *testing.T) note {
	t.Helper()
	if len(r.notes) == 0 {
		t.Fatalf("expected a notification")
	}
	return r.notes[len(r.notes)-1]
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newStore(s slot.Slot) *registry.Store {
	n := 0
	return registry.New(s,
		registry.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		registry.WithClock(func() time.Time { return time.Date(2026, 3, 4, 17, 5, 9, 0, time.UTC) }),
	)
}

func newHandler(s slot.Slot) (*Handler, *recorder, *fakeClipboard) {
	rec := &recorder{}
	cb := &fakeClipboard{}
	return NewHandler(newStore(s), rec, cb), rec, cb
}

func TestHandlerAdd_Success(t *testing.T) {
	h, rec, _ := newHandler(slot.NewMemorySlot())
	in := &AddInput{HWID: "  AB-12  ", PlayerName: " Alice "}

	e, ok := h.Add(context.Background(), in)
	if !ok {
		t.Fatalf("expected add to succeed")
	}
	if e.HWID != "AB-12" || e.PlayerName != "Alice" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if in.HWID != "" || in.PlayerName != "" {
		t.Fatalf("expected inputs cleared, got %+v", in)
	}
	if n := rec.last(t); n.kind != KindSuccess || n.msg != i18n.T("notify.added") {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestHandlerAdd_ValidationKeepsInputs(t *testing.T) {
	h, rec, _ := newHandler(slot.NewMemorySlot())
	ctx := context.Background()

	blank := &AddInput{HWID: "   ", PlayerName: "Bob"}
	if _, ok := h.Add(ctx, blank); ok {
		t.Fatalf("expected blank hwid to be rejected")
	}
	if n := rec.last(t); n.kind != KindError || n.msg != i18n.T("notify.error_empty_hwid") {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if blank.PlayerName != "Bob" {
		t.Fatalf("inputs must survive a rejected add")
	}

	h.Add(ctx, &AddInput{HWID: "X1"})
	dup := &AddInput{HWID: "X1", PlayerName: "Eve"}
	if _, ok := h.Add(ctx, dup); ok {
		t.Fatalf("expected duplicate to be rejected")
	}
	if n := rec.last(t); n.kind != KindError || n.msg != i18n.T("notify.error_duplicate_hwid") {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if dup.HWID != "X1" {
		t.Fatalf("inputs must survive a rejected add")
	}
	if h.Store().Len() != 1 {
		t.Fatalf("expected one entry, got %d", h.Store().Len())
	}
}

func TestHandlerAdd_PersistFailure(t *testing.T) {
	fs := testutil.NewFlakySlot()
	fs.FailWrites = true
	h, rec, _ := newHandler(fs)
	in := &AddInput{HWID: "X1"}
	if _, ok := h.Add(context.Background(), in); ok {
		t.Fatalf("expected add to fail")
	}
	if n := rec.last(t); n.kind != KindError {
		t.Fatalf("expected error notification, got %+v", n)
	}
	if in.HWID != "X1" {
		t.Fatalf("inputs must survive a failed save")
	}
	if h.Store().Len() != 0 {
		t.Fatalf("failed save must roll back")
	}
}

func TestHandlerRemove_AlwaysNotifies(t *testing.T) {
	h, rec, _ := newHandler(slot.NewMemorySlot())
	ctx := context.Background()
	e, _ := h.Add(ctx, &AddInput{HWID: "X1"})

	for _, id := range []string{e.ID, e.ID, "missing"} {
		if !h.Remove(ctx, id) {
			t.Fatalf("remove %q failed", id)
		}
		if n := rec.last(t); n.kind != KindInfo || n.msg != i18n.T("notify.removed") {
			t.Fatalf("unexpected notification: %+v", n)
		}
	}
	if h.Store().Len() != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestHandlerCopy(t *testing.T) {
	h, rec, cb := newHandler(slot.NewMemorySlot())
	h.Copy("AB-12")
	if cb.text != "AB-12" {
		t.Fatalf("clipboard holds %q", cb.text)
	}
	if n := rec.last(t); n.kind != KindSuccess || n.msg != i18n.T("notify.copied") {
		t.Fatalf("unexpected notification: %+v", n)
	}

	cb.err = errors.New("no display")
	h.Copy("CD-34")
	if n := rec.last(t); n.kind != KindSuccess {
		t.Fatalf("copy must report success even when the clipboard fails, got %+v", n)
	}
}

func TestHandlerSearchAndView(t *testing.T) {
	h, _, _ := newHandler(slot.NewMemorySlot())
	ctx := context.Background()

	if got := h.View(); got.State != view.StateEmpty {
		t.Fatalf("expected empty state, got %v", got.State)
	}
	h.Add(ctx, &AddInput{HWID: "AAA", PlayerName: "Alice"})
	h.Add(ctx, &AddInput{HWID: "BBB", PlayerName: "Bob"})

	h.Search("bob")
	if h.SearchTerm() != "bob" {
		t.Fatalf("search term not kept")
	}
	v := h.View()
	if v.State != view.StateList || len(v.Rows) != 1 || v.Rows[0].HWID != "BBB" || v.Total != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
	h.Search("zzz")
	if got := h.View(); got.State != view.StateNoMatches {
		t.Fatalf("expected no matches, got %v", got.State)
	}
}

func TestHandlerClear(t *testing.T) {
	mem := slot.NewMemorySlot()
	h, rec, _ := newHandler(mem)
	ctx := context.Background()
	h.Add(ctx, &AddInput{HWID: "X1"})

	if !h.Clear(ctx) {
		t.Fatalf("clear failed")
	}
	if n := rec.last(t); n.kind != KindInfo || n.msg != i18n.T("notify.cleared") {
		t.Fatalf("unexpected notification: %+v", n)
	}
	raw, err := mem.Read(ctx, registry.New(mem).Key())
	if err != nil || string(raw) != "[]" {
		t.Fatalf("expected empty list persisted, got %q (%v)", raw, err)
	}
}

func TestReportLoadError(t *testing.T) {
	h, rec, _ := newHandler(slot.NewMemorySlot())
	if !h.ReportLoadError(nil) || len(rec.notes) != 0 {
		t.Fatalf("nil error must be silent")
	}
	cerr := &registry.CorruptSlotError{Key: "k", QuarantineKey: "k.corrupt", Err: errors.New("bad json")}
	if !h.ReportLoadError(fmt.Errorf("load: %w", cerr)) {
		t.Fatalf("corrupt slot must not be fatal")
	}
	if n := rec.last(t); n.kind != KindError || n.msg != i18n.T("notify.error_corrupt", "k.corrupt") {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if h.ReportLoadError(errors.New("connection refused")) {
		t.Fatalf("other load errors are fatal")
	}
}

func TestKindTitle(t *testing.T) {
	if KindSuccess.Title() != "Success" || KindError.Title() != "Error" {
		t.Fatalf("unexpected titles: %q %q", KindSuccess.Title(), KindError.Title())
	}
	if KindInfo.String() != "info" {
		t.Fatalf("unexpected kind name %q", KindInfo.String())
	}
}

func entriesOf(hw ...string) []model.Entry {
	out := make([]model.Entry, 0, len(hw))
	for i, h := range hw {
		out = append(out, model.Entry{ID: fmt.Sprintf("b-%d", i+1), HWID: h, PlayerName: "P", DateAdded: "d", LastSeen: "d"})
	}
	return out
}
