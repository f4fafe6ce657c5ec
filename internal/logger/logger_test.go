package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestWarn_AlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Warn("model mismatch")
	if !strings.Contains(buf.String(), "[WARN] model mismatch") {
		t.Errorf("expected warning output, got %q", buf.String())
	}
}
