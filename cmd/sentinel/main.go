package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sentinel/internal/cli"
	"github.com/example/sentinel/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "sentinel",
		Short:   "Sentinel - safety audit checklists and corrective actions",
		Version: version.String(),
		Long: `Sentinel runs safety audit checklist evaluations, tracks the corrective
actions raised by non-compliant answers, and derives compliance metrics
over the accumulated history.`,
	}

	// Session and identity
	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.WhoamiCmd())

	// Core workflow
	rootCmd.AddCommand(cli.EvaluationCmd())
	rootCmd.AddCommand(cli.ActionCmd())
	rootCmd.AddCommand(cli.AnalysisCmd())

	// Administration
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.ChecklistCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
