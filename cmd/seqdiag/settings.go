package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"seqdiag/internal/diag"
	"seqdiag/internal/diagfmt"
	"seqdiag/internal/driver"
	"seqdiag/internal/observ"
	"seqdiag/internal/project"
	"seqdiag/internal/source"
	"seqdiag/internal/style"
)

// globals are the persistent flags after env overrides.
type globals struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	diagFormat     string
}

func readGlobals() (globals, error) {
	color, err := readColorMode(viper.GetString("color"), os.Stderr)
	if err != nil {
		return globals{}, err
	}
	diagFormat := viper.GetString("diagnostics-format")
	switch diagFormat {
	case "pretty", "short", "json":
	default:
		return globals{}, fmt.Errorf("unknown diagnostics format %q (want pretty|short|json)", diagFormat)
	}
	return globals{
		diagFormat:     diagFormat,
		color:          color,
		quiet:          viper.GetBool("quiet"),
		timings:        viper.GetBool("timings"),
		maxDiagnostics: viper.GetInt("max-diagnostics"),
	}, nil
}

// addRenderFlags registers the flags shared by layout and render.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("style", "", "style file (.toml|.yaml); defaults to [render].style of seqdiag.toml")
	cmd.Flags().String("measurer", "", "text measurer (approx|fixed)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the layout cache")
}

// buildOptions merges seqdiag.toml with command flags. Flags win.
func buildOptions(cmd *cobra.Command, g globals) (driver.Options, *project.Manifest, error) {
	manifest, _, err := project.LoadManifest(".")
	if err != nil {
		return driver.Options{}, nil, err
	}
	cfg := project.DefaultConfig()
	if manifest != nil {
		cfg = manifest.Config
	}

	opts := driver.Options{MaxDiagnostics: g.maxDiagnostics, Jobs: cfg.Render.Jobs}
	if g.timings {
		opts.Timer = observ.NewTimer()
	}

	stylePath, _ := cmd.Flags().GetString("style")
	if stylePath == "" {
		stylePath = manifest.StylePath()
	}
	if stylePath != "" {
		st, err := style.Load(stylePath)
		if err != nil {
			return driver.Options{}, nil, fmt.Errorf("%s: %w", diag.CfgInvalidStyle.ID(), err)
		}
		opts.Style = &st
	}

	measurer, _ := cmd.Flags().GetString("measurer")
	if measurer == "" {
		measurer = cfg.Render.Measurer
	}
	if opts, err = opts.WithMeasurer(measurer); err != nil {
		return driver.Options{}, nil, err
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Render.Cache && !noCache {
		cache, err := driver.OpenDiskCache("seqdiag")
		if err != nil {
			// без кэша тоже работаем
			if !g.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: layout cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}
	return opts, manifest, nil
}

// reportDiagnostics prints bag to stderr and tells whether it had errors.
func reportDiagnostics(cmd *cobra.Command, g globals, bag *diag.Bag, fs *source.FileSet) (bool, error) {
	if bag == nil || bag.Len() == 0 {
		return false, nil
	}
	bag.Sort()
	bag.Dedup()
	w := cmd.ErrOrStderr()
	switch g.diagFormat {
	case "short":
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), fs, true))
		return bag.HasErrors(), err
	case "json":
		return bag.HasErrors(), diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              g.maxDiagnostics,
		})
	}
	return bag.HasErrors(), diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     g.color,
		Context:   1,
		ShowNotes: true,
	})
}

func printTimings(w io.Writer, g globals, t *observ.Timer) {
	if !g.timings || t == nil {
		return
	}
	fmt.Fprint(w, t.Summary())
}

// input is a diagram source named on the command line. "-" is stdin, read
// eagerly; files are loaded by the driver.
type input struct {
	name  string
	data  []byte
	stdin bool
}

func readInput(cmd *cobra.Command, path string) (input, error) {
	if path != "-" {
		return input{name: path}, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return input{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return input{name: "<stdin>", data: data, stdin: true}, nil
}
