package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	s, err := Start(paths)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	// повторный Stop ничего не делает
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{paths.CPU, paths.Mem, paths.Trace} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("%s: %v", p, err)
		}
	}
}

func TestStartBadPath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "no", "such", "dir", "trace.out")
	if _, err := Start(Paths{CPU: filepath.Join(dir, "first.pprof"), Trace: missing}); err == nil {
		t.Fatal("expected error for unwritable trace path")
	}
	// CPU профайлер должен быть свободен после ошибки
	s, err := Start(Paths{CPU: filepath.Join(dir, "cpu.pprof")})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Stop()
}

func TestPathsEnabled(t *testing.T) {
	if (Paths{}).Enabled() {
		t.Fatal("empty paths must be disabled")
	}
	if !(Paths{Mem: "m"}).Enabled() {
		t.Fatal("mem path must enable profiling")
	}
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}
