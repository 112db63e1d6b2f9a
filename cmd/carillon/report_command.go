package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carillon/internal/analytics"
)

func newReportCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show archived weekly summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			history, err := analytics.OpenStore(cfg.Paths.AnalyticsDB)
			if err != nil {
				return fmt.Errorf("open report history: %w", err)
			}
			defer history.Close()

			reports, err := history.RecentReports(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load reports: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintln(out, "No weekly summaries recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(reports))
			for _, report := range reports {
				rows = append(rows, []string{
					report.WeekStart,
					report.GeneratedAt.Local().Format("2006-01-02 15:04"),
					report.Text,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{{title: "Week"}, {title: "Generated"}, {title: "Summary"}},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of summaries to show")
	return cmd
}
