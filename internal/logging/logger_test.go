package logging

import (
	"bytes"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// TestLoggingHelpers_WriteToBuffer verifies the package helper functions write
// formatted messages to the package-level logger `L`. The test swaps `L` with
// a buffer-backed logger and restores it afterwards.
func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	L.SetLevel(clog.DebugLevel)
	defer func() { L = prev }()

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output; got: %s", want, out)
		}
	}
}

func TestInit_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	defer func() { L = prev }()

	Init("warn", &buf)
	Infof("quiet")
	Warnf("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info message should be filtered at warn level; got: %s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("missing warn output; got: %s", out)
	}
}

func TestParseLevel_Fallback(t *testing.T) {
	if got := ParseLevel("nonsense"); got != clog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := ParseLevel(" DEBUG "); got != clog.DebugLevel {
		t.Fatalf("expected debug, got %v", got)
	}
}
