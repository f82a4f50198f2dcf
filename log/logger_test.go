package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelForVerbosity(t *testing.T) {
	specs := map[int]Level{
		0: Notice,
		1: Info,
		2: Debug,
		5: Debug,
	}
	for verbosity, exp := range specs {
		if got := LevelForVerbosity(verbosity); got != exp {
			t.Errorf("expected verbosity %d to map to level %d; got %d", verbosity, exp, got)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	var buf bytes.Buffer
	SetLevel(Info)
	SetSink(&buf)

	logger := New("test")
	logger.Debug("hidden")
	logger.Infof("visible %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible 42") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected info message tagged with module name; got %q", out)
	}
}
