package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"seqdiag/internal/trace"
)

var activeTracer trace.Tracer = trace.Nop

// setupTracing builds the tracer from the trace flags and stores it in the
// command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	level, err := trace.ParseLevel(viper.GetString("trace-level"))
	if err != nil {
		return nil, err
	}
	output := viper.GetString("trace")

	// --trace без уровня включает phase
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(viper.GetString("trace-mode"))
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(viper.GetString("trace-format"))
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   viper.GetInt("trace-ring-size"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
		activeTracer = trace.Nop
	}, nil
}

// dumpTraceRing prints the ring buffer to stderr after a failed command.
func dumpTraceRing(cmdErr error) {
	if cmdErr == nil {
		return
	}
	ring := trace.RingOf(activeTracer)
	if ring == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "trace (last events):")
	if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
}
