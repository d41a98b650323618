package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureOutput captures stdout during test execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		print func(string)
		emoji string
	}{
		{"success", Success, "🔥"},
		{"warn", Warn, "⚠️"},
		{"error", Error, "❌"},
		{"info", Info, "ℹ️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := captureOutput(func() { tt.print("module core") })
			if !strings.Contains(got, tt.emoji) {
				t.Errorf("%s output should contain %q, got %q", tt.name, tt.emoji, got)
			}
			if !strings.Contains(got, "module core") {
				t.Errorf("%s output should contain the message, got %q", tt.name, got)
			}
		})
	}
}

func TestStep(t *testing.T) {
	got := captureOutput(func() { Step("heron order") })
	if !strings.Contains(got, "   heron order") {
		t.Errorf("Step output should be indented, got %q", got)
	}
}

func TestVerbose(t *testing.T) {
	SetVerbose(false)
	got := captureOutput(func() { Verbose("hidden") })
	if got != "" {
		t.Errorf("Verbose should print nothing when disabled, got %q", got)
	}

	SetVerbose(true)
	defer SetVerbose(false)
	if !IsVerbose() {
		t.Fatal("IsVerbose should report true after SetVerbose(true)")
	}
	got = captureOutput(func() { Verbose("shown") })
	if !strings.Contains(got, "shown") {
		t.Errorf("Verbose should print when enabled, got %q", got)
	}
}

func TestList(t *testing.T) {
	got := captureOutput(func() { List("Dependencies of app", []string{"core", "util"}) })
	for _, want := range []string{"Dependencies of app", "   core\n", "   util\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("List output missing %q, got %q", want, got)
		}
	}

	got = captureOutput(func() { List("Dependents of app", nil) })
	if !strings.Contains(got, "(none)") {
		t.Errorf("empty List should print (none), got %q", got)
	}
}

func TestNumbered(t *testing.T) {
	got := captureOutput(func() { Numbered("Build order", []string{"a", "b"}) })
	if !strings.Contains(got, "   1. a\n") || !strings.Contains(got, "   2. b\n") {
		t.Errorf("Numbered output unexpected: %q", got)
	}
}
