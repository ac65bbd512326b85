package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seqdiag/internal/diag"
	"seqdiag/internal/driver"
	"seqdiag/internal/source"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file.seq|directory|->",
	Short: "Render diagrams to SVG",
	Long: `Render lays out a diagram and writes it as SVG. For a single file the
SVG goes to -o (stdout when omitted or "-"). For a directory every *.seq file
is rendered in parallel into -o, or next to its source.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output file or directory")
	renderCmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	renderCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	addRenderFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	g, err := readGlobals()
	if err != nil {
		return err
	}
	opts, manifest, err := buildOptions(cmd, g)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")

	target := args[0]
	if target != "-" {
		st, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}
		if st.IsDir() {
			if out == "" {
				out = manifest.OutDir()
			}
			return renderDirectory(cmd, g, target, out, opts)
		}
	}

	res, err := layoutInput(cmd, target, opts)
	if err != nil {
		return err
	}
	failed, err := reportDiagnostics(cmd, g, res.Bag, res.FileSet)
	if err != nil {
		return err
	}
	if failed {
		return errReported
	}

	if out == "" || out == "-" {
		if err := driver.RenderSVG(cmd.Context(), res, cmd.OutOrStdout(), opts); err != nil {
			return err
		}
	} else {
		if err := driver.WriteSVGFile(cmd.Context(), res, out, opts); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		if !g.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
		}
	}
	printTimings(cmd.ErrOrStderr(), g, opts.Timer)
	return nil
}

func renderDirectory(cmd *cobra.Command, g globals, dir, out string, opts driver.Options) error {
	if jobs, _ := cmd.Flags().GetInt("jobs"); cmd.Flags().Changed("jobs") {
		opts.Jobs = jobs
	}
	opts.OutDir = out

	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var (
		fs      *source.FileSet
		results []driver.RenderDirResult
	)
	if shouldUseTUI(mode, g.quiet) {
		files, err := driver.ListFiles(dir)
		if err != nil {
			return err
		}
		fs, results, err = runRenderDirWithUI(cmd.Context(), "rendering "+dir, files, dir, opts)
		if err != nil {
			return err
		}
	} else {
		fs, results, err = driver.RenderDir(cmd.Context(), dir, opts)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	bag := diag.NewBag(g.maxDiagnostics)
	written, cached := 0, 0
	for _, r := range results {
		bag.Merge(r.Bag)
		if r.OutPath != "" {
			written++
		}
		if r.CacheHit {
			cached++
		}
	}
	failed, err := reportDiagnostics(cmd, g, bag, fs)
	if err != nil {
		return err
	}
	if !g.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "rendered %d of %d diagram(s) (%d from cache)%s\n",
			written, len(results), cached, outSuffix(out))
	}
	printTimings(cmd.ErrOrStderr(), g, opts.Timer)
	if failed {
		return errReported
	}
	return nil
}

func outSuffix(out string) string {
	if out == "" {
		return ""
	}
	return " into " + strings.TrimSuffix(filepath.Clean(out), string(filepath.Separator))
}

type renderOutcome struct {
	fs      *source.FileSet
	results []driver.RenderDirResult
	err     error
}

// runRenderDirWithUI runs RenderDir behind the progress view.
func runRenderDirWithUI(ctx context.Context, title string, files []string, dir string, opts driver.Options) (*source.FileSet, []driver.RenderDirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan renderOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.RenderDir(ctx, dir, o)
		outcomeCh <- renderOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	uiErr := runProgressUI(title, files, events)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
