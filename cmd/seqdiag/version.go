package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"seqdiag/internal/version"
)

const versionTagline = "boxes, arrows and the space between them"

type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		full, _ := cmd.Flags().GetBool("full")
		info := version.Current()
		if !full {
			info.GitCommit, info.BuildDate = "", ""
		} else {
			info.GitCommit = valueOrUnknown(info.GitCommit)
			info.BuildDate = valueOrUnknown(info.BuildDate)
		}

		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{Tool: "seqdiag", Tagline: versionTagline, Info: info})
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), info, full)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit and build date")
}

func renderVersionPretty(out io.Writer, info version.Info, full bool) {
	fmt.Fprintf(out, "seqdiag %s: %s\n", version.Colored(info.Version), versionTagline)
	if full {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
