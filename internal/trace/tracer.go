package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode determines where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // circular buffer
	ModeBoth                          // stream + ring
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	default:
		return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
	}
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" is stderr
	RingSize   int
}

// New builds a tracer. LevelOff yields Nop. LevelError forces ring mode.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Level == LevelError {
		cfg.Mode = ModeRing
	}
	format := formatFor(cfg.Format, cfg.OutputPath)

	switch cfg.Mode {
	case ModeStream, 0:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, format), nil
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level,
			NewStreamTracer(w, cfg.Level, format),
			NewRingTracer(cfg.RingSize, cfg.Level),
		), nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

// RingOf returns the ring buffer behind t, if it has one.
func RingOf(t Tracer) *RingTracer {
	switch tt := t.(type) {
	case *RingTracer:
		return tt
	case *MultiTracer:
		return tt.Ring()
	}
	return nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
