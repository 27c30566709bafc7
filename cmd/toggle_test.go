package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/history"
)

func TestToggleFlipsCandidate(t *testing.T) {
	path := setupEnv(t, sampleConfig)

	out, err := executeCommand(t, "toggle", "KERNELS", "linux-lts")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(out, "linux-lts enabled") {
		t.Errorf("unexpected output: %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "KERNELS=\"linux linux-lts !linux-zen\"") {
		t.Errorf("candidate not enabled in place:\n%s", data)
	}

	out, err = executeCommand(t, "toggle", "KERNELS", "linux-lts")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if !strings.Contains(out, "linux-lts disabled") {
		t.Errorf("unexpected output: %q", out)
	}

	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "KERNELS=\"linux !linux-lts !linux-zen\"") {
		t.Errorf("candidate not disabled again:\n%s", data)
	}
}

func TestToggleAppendsNewCandidate(t *testing.T) {
	path := setupEnv(t, sampleConfig)

	if _, err := executeCommand(t, "toggle", "KERNELS", "linux-hardened"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "KERNELS=\"linux !linux-lts !linux-zen linux-hardened\"") {
		t.Errorf("new candidate not appended enabled:\n%s", data)
	}
}

func TestToggleAllowsZeroEnabled(t *testing.T) {
	path := setupEnv(t, sampleConfig)

	if _, err := executeCommand(t, "toggle", "KERNELS", "linux"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "KERNELS=\"!linux !linux-lts !linux-zen\"") {
		t.Errorf("zero enabled candidates should be legal:\n%s", data)
	}
}

func TestToggleJournalsBeforeAndAfter(t *testing.T) {
	setupEnv(t, sampleConfig)

	if _, err := executeCommand(t, "toggle", "MIRROR_REGIONS", "France"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	entries, err := journal().Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Op != history.OpToggle || e.Key != "MIRROR_REGIONS" {
		t.Errorf("journal entry = %+v", e)
	}
	if e.Old != "Germany" || e.New != "Germany France" {
		t.Errorf("old/new = %q/%q, want Germany/Germany France", e.Old, e.New)
	}
}

func TestToggleWrongKind(t *testing.T) {
	setupEnv(t, sampleConfig)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"single choice key", "BOOTLOADER", "use select"},
		{"scalar key", "TIMEZONE", "use set"},
		{"collection key", "EXTRA_PACKAGES", "use set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, "toggle", tt.key, "anything")
			if err == nil {
				t.Fatal("expected a usage error")
			}
			if code := errors.GetExitCode(err); code != errors.ExitUsageError {
				t.Errorf("exit code = %d, want %d", code, errors.ExitUsageError)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
		})
	}
}

func TestToggleMissingKey(t *testing.T) {
	setupEnv(t, "KERNELS=\"linux\"\n")

	out, err := executeCommand(t, "toggle", "MIRROR_REGIONS", "Germany")
	if err == nil {
		t.Fatal("expected an error for a key the file does not assign")
	}
	if code := errors.GetExitCode(err); code != errors.ExitGeneralError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitGeneralError)
	}
	if !strings.Contains(out, "key not found") {
		t.Errorf("output %q missing key not found", out)
	}
}
