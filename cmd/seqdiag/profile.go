package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"seqdiag/internal/prof"
)

// setupProfiling starts the profilers named by the persistent profiling
// flags. The returned cleanup may be called more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var paths prof.Paths
	for name, dst := range map[string]*string{
		"cpu-profile":   &paths.CPU,
		"mem-profile":   &paths.Mem,
		"runtime-trace": &paths.Trace,
	} {
		v, err := pf.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !paths.Enabled() {
		return func() {}, nil
	}

	session, err := prof.Start(paths)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write profile: %v\n", err)
		}
	}, nil
}
