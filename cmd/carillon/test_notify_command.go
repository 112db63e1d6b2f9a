package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carillon/internal/notify"
	"carillon/internal/vault"
)

func newTestNotifyCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := vault.Fill(cfg); err != nil {
				return fmt.Errorf("resolve credentials: %w", err)
			}

			backend := backendLabel(cfg.Notifications.Backend)
			if backend == "disabled" {
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications are disabled; set notifications.backend first")
				return nil
			}

			service := notify.NewService(cfg)
			if err := service.TestNotification(cmd.Context()); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent via %s\n", backend)
			return nil
		},
	}
}
