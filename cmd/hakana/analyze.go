package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hakana-go/hakana/internal/orchestrator"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "run one analysis cycle and report issues",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, err := resolveConfig(root)
		if err != nil {
			return err
		}

		o := orchestrator.New(cfg, newParser(), logger)
		report, err := o.RunCycle(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		issues := report.Issues.Sorted()
		printIssues(os.Stdout, issues, colorEnabled(os.Stdout))
		printSummary(os.Stderr, report)

		os.Exit(report.Issues.ExitCode())
		return nil
	},
}
