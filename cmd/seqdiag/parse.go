package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seqdiag/internal/diagfmt"
	"seqdiag/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.seq|->",
	Short: "Parse a diagram and print its model",
	Long:  `Parse checks a diagram and prints the participants and messages it declares. Diagnostics go to stderr.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	parseCmd.Flags().Bool("json-diagnostics", false, "print diagnostics as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobals()
	if err != nil {
		return err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := diagfmt.ParseModelFormat(formatFlag)
	if err != nil {
		return err
	}
	if jsonDiags, _ := cmd.Flags().GetBool("json-diagnostics"); jsonDiags {
		g.diagFormat = "json"
	}

	in, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	var res *driver.ParseResult
	if in.stdin {
		res = driver.ParseSource(cmd.Context(), in.name, in.data, g.maxDiagnostics)
	} else if res, err = driver.ParseFile(cmd.Context(), in.name, g.maxDiagnostics); err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	failed, err := reportDiagnostics(cmd, g, res.Bag, res.FileSet)
	if err != nil {
		return err
	}
	if failed {
		return errReported
	}
	return diagfmt.WriteModel(cmd.OutOrStdout(), res.Diagram, format)
}
