package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hakana-go/hakana/internal/fsscan"
	"github.com/hakana-go/hakana/internal/orchestrator"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "re-run analysis cycles as source files change",
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		o := orchestrator.New(cfg, newParser(), logger)

		runOnce := func() {
			report, err := o.RunCycle(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			printIssues(os.Stdout, report.Issues.Sorted(), colorEnabled(os.Stdout))
			printSummary(os.Stderr, report)
		}

		runOnce()

		watcher, err := fsscan.NewWatcher(cfg.Paths, cfg.IgnoreFiles, watchDebounce)
		if err != nil {
			return fmt.Errorf("starting file watcher: %w", err)
		}
		events, err := watcher.Start(ctx)
		if err != nil {
			return fmt.Errorf("watching %v: %w", cfg.Paths, err)
		}

		logger.Info("watching for changes", zap.Strings("paths", cfg.Paths))
		for range events {
			runOnce()
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 250*time.Millisecond, "time to coalesce filesystem events before re-analyzing")
}
