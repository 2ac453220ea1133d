package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hakana-go/hakana/internal/orchestrator"
)

var fixIssueKinds []string

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "run one analysis cycle and write HAKANA_FIXME suppressions for issues_to_fix",
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
		if len(fixIssueKinds) > 0 {
			cfg.IssuesToFix = fixIssueKinds
		}

		o := orchestrator.New(cfg, newParser(), logger)
		report, err := o.RunCycle(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if len(report.Edits) == 0 {
			printSummary(os.Stderr, report)
			return nil
		}

		sources, err := orchestrator.ReadSources(report)
		if err != nil {
			return err
		}
		rendered, err := orchestrator.RenderFixes(report, sources)
		if err != nil {
			return err
		}
		for file, content := range rendered {
			if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
		}

		fmt.Fprintf(os.Stderr, "fixed %d file(s)\n", len(rendered))
		return nil
	},
}

func init() {
	fixCmd.Flags().StringSliceVar(&fixIssueKinds, "issue", nil, "issue kind(s) to auto-fix, overriding issues_to_fix from hakana.yaml")
}
