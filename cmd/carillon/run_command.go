package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"carillon/internal/analytics"
	"carillon/internal/logging"
	"carillon/internal/vault"
	"carillon/internal/workflow"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one download engine pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := vault.Fill(cfg); err != nil {
				return fmt.Errorf("resolve credentials: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			history, err := analytics.OpenStore(cfg.Paths.AnalyticsDB)
			if err != nil {
				logger.Warn("analytics history unavailable", logging.Error(err))
				history = nil
			} else {
				defer history.Close()
			}

			manager := workflow.NewManager(cfg, logger).WithHistory(history)
			result, err := manager.Run(ctx)
			if err != nil {
				return err
			}

			printRunResult(cmd, result)
			return nil
		},
	}
}

func printRunResult(cmd *cobra.Command, result *workflow.RunResult) {
	out := cmd.OutOrStdout()

	if len(result.Items) > 0 {
		rows := make([][]string, 0, len(result.Items))
		for _, item := range result.Items {
			size := ""
			if item.Bytes > 0 {
				size = humanize.Bytes(uint64(item.Bytes))
			}
			detail := item.Destination.Path()
			if item.Err != nil {
				detail = item.Err.Error()
			}
			rows = append(rows, []string{
				item.Broadcast.Name,
				item.Category,
				string(item.Status),
				size,
				detail,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]column{
				{title: "Broadcast"},
				{title: "Category"},
				{title: "Status"},
				{title: "Size", right: true},
				{title: "Detail"},
			},
			rows,
		))
	}

	fmt.Fprintf(out, "Run %s: %d downloaded (%s), %d skipped, %d pending, %d failed in %s\n",
		result.RunID,
		result.Downloaded,
		humanize.Bytes(uint64(result.Bytes)),
		result.Skipped,
		result.Pending,
		result.Failed,
		result.Duration.Round(time.Second))
}
