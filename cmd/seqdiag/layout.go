package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seqdiag/internal/diagfmt"
	"seqdiag/internal/driver"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] <file.seq|->",
	Short: "Compute the layout of a diagram and print the position model",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	addRenderFlags(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	g, err := readGlobals()
	if err != nil {
		return err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := diagfmt.ParseModelFormat(formatFlag)
	if err != nil {
		return err
	}
	opts, _, err := buildOptions(cmd, g)
	if err != nil {
		return err
	}

	res, err := layoutInput(cmd, args[0], opts)
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
	if err := diagfmt.WriteModel(cmd.OutOrStdout(), res.Layout, format); err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), g, opts.Timer)
	return nil
}

func layoutInput(cmd *cobra.Command, path string, opts driver.Options) (*driver.LayoutResult, error) {
	in, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var res *driver.LayoutResult
	if in.stdin {
		res, err = driver.LayoutSource(cmd.Context(), in.name, in.data, opts)
	} else {
		res, err = driver.LayoutFile(cmd.Context(), in.name, opts)
	}
	if err != nil && res == nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}
	if err != nil {
		// запись в кэш не удалась, результат есть
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return res, nil
}
