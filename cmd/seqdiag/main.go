package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"seqdiag/internal/version"
)

// errReported: diagnostics are already printed, exit 1 silently.
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "seqdiag",
	Short: "Sequence diagram parser, layout engine and SVG renderer",
	Long: `seqdiag reads plain-text sequence diagrams (*.seq), checks them,
computes their layout and renders them to SVG.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		stopProf, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTrace, err := setupTracing(cmd)
		if err != nil {
			stopProf()
			return err
		}
		runCleanup = func() {
			stopTrace()
			stopProf()
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if runCleanup != nil {
			runCleanup()
			runCleanup = nil
		}
	},
}

var runCleanup func()

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("diagnostics-format", "pretty", "diagnostics format (pretty|short|json)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in the trace ring buffer")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	for _, name := range []string{"color", "quiet", "timings", "max-diagnostics", "diagnostics-format", "trace", "trace-level", "trace-mode", "trace-format", "trace-ring-size"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(parseCmd, layoutCmd, renderCmd, initCmd, versionCmd)
}

// initConfig: SEQDIAG_MAX_DIAGNOSTICS=5 и т.п.
func initConfig() {
	viper.SetEnvPrefix("SEQDIAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	rootCmd.Version = version.Current().Version

	err := rootCmd.Execute()
	if runCleanup != nil {
		// при ошибке PostRun не вызывается
		dumpTraceRing(err)
		runCleanup()
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
