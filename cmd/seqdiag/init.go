package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"seqdiag/internal/project"
	"seqdiag/internal/style"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create seqdiag.toml (and optionally a style file)",
	Long: `Init writes a seqdiag.toml with default render settings into dir (the
current directory when omitted). With --style it also writes style.toml holding
the default style, and points [render].style at it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("style", false, "also write style.toml with the default style")
	initCmd.Flags().Bool("force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	withStyle, _ := cmd.Flags().GetBool("style")
	force, _ := cmd.Flags().GetBool("force")

	cfg := project.DefaultConfig()
	var created []string
	if withStyle {
		stylePath := filepath.Join(target, "style.toml")
		if _, err := os.Stat(stylePath); err == nil && !force {
			return fmt.Errorf("%s already exists", stylePath)
		}
		data, err := style.Default().EncodeTOML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(stylePath, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", stylePath, err)
		}
		cfg.Render.Style = "style.toml"
		created = append(created, stylePath)
	}

	path, err := project.WriteConfig(target, cfg, force)
	if err != nil {
		return err
	}
	created = append(created, path)

	for _, p := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
	}
	return nil
}
