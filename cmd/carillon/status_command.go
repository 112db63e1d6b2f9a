package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"carillon/internal/ledger"
	"carillon/internal/logging"
	"carillon/internal/preflight"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, storage readiness, and ledger state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines,
				renderStatusLine("Destination", statusInfo, cfg.Paths.BaseDir, colorize),
				renderStatusLine("State file", statusInfo, cfg.Paths.StateFile, colorize),
				renderStatusLine("Time zone", statusInfo, cfg.Schedule.Timezone, colorize),
				renderStatusLine("Start date", statusInfo, cfg.Schedule.StartDate, colorize),
				renderStatusLine("Notifications", statusInfo, backendLabel(cfg.Notifications.Backend), colorize),
				renderStatusLine("Holiday overwrite", statusInfo, yesNo(cfg.Organizer.HolidayOverwrite), colorize),
			)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Storage", colorize)...)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Ledger", colorize)...)
			store, err := ledger.Load(cfg.Paths.StateFile, cfg.Ledger.Strict, logging.NewNop())
			if err != nil {
				lines = append(lines, renderStatusLine("Ledger", statusError, err.Error(), colorize))
			} else {
				lines = append(lines,
					renderStatusLine("Downloads", statusOK, fmt.Sprintf("%d recording(s)", store.DownloadedCount()), colorize),
					renderStatusLine("Live now", statusInfo, fmt.Sprintf("%d broadcast(s)", len(store.LiveIDs())), colorize),
					renderStatusLine("Schedule check", statusInfo, orNever(store.LastScheduleCheck()), colorize),
					renderStatusLine("Weekly summary", statusInfo, orNever(store.LastAnalytics()), colorize),
				)
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func backendLabel(backend string) string {
	if backend == "" || backend == "none" {
		return "disabled"
	}
	return backend
}

func orNever(date string) string {
	if date == "" {
		return "never"
	}
	return date
}
