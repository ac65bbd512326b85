// Package prof wraps the runtime profilers used by the seqdiag CLI.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Paths selects which profiles to collect. Empty paths are skipped.
type Paths struct {
	CPU   string
	Mem   string
	Trace string
}

// Enabled reports whether any profile was requested.
func (p Paths) Enabled() bool {
	return p.CPU != "" || p.Mem != "" || p.Trace != ""
}

// Session holds the files of running profilers. Stop is idempotent.
type Session struct {
	paths     Paths
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the CPU profiler and runtime trace requested by p. The heap
// profile is written on Stop.
func Start(p Paths) (*Session, error) {
	s := &Session{paths: p}
	if p.CPU != "" {
		f, err := os.Create(p.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if p.Trace != "" {
		f, err := os.Create(p.Trace)
		if err != nil {
			s.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends the trace and CPU profile, then writes the heap profile.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
		s.traceFile = nil
	}
	errs = append(errs, s.stopCPU())
	if s.paths.Mem != "" {
		errs = append(errs, writeMem(s.paths.Mem))
	}
	return errors.Join(errs...)
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpuFile.Close()
	s.cpuFile = nil
	return err
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("heap profile: %w", closeErr)
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
