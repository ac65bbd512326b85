package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrent(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = "  "
	GitCommit = " abc123 "
	info := Current()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q, want abc123", info.GitCommit)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct {
		in, want string
	}{
		{"1.2.3", "1.2.3"},
		{"0.3.0-dev", "0.3.0-dev"},
		{"dev", "dev"},
		{"1.2", "1.2"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
