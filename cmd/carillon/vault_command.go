package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"carillon/internal/vault"
)

func newVaultCommand(ctx *commandContext) *cobra.Command {
	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage encrypted credentials",
	}

	vaultCmd.AddCommand(newVaultSetCommand(ctx))
	vaultCmd.AddCommand(newVaultShowCommand(ctx))

	return vaultCmd
}

func newVaultSetCommand(ctx *commandContext) *cobra.Command {
	var clientID string
	var clientSecret string
	var webhook string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Seal API credentials into the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			secrets := vault.Secrets{
				ClientID:       strings.TrimSpace(clientID),
				ClientSecret:   strings.TrimSpace(clientSecret),
				DiscordWebhook: strings.TrimSpace(webhook),
			}
			if secrets.ClientID == "" && secrets.ClientSecret == "" && secrets.DiscordWebhook == "" {
				return fmt.Errorf("nothing to seal: pass --client-id, --client-secret, or --webhook")
			}
			// Preserve values already sealed when only some flags are given.
			if existing, err := vault.Open(cfg.Vault.KeyFile, cfg.Vault.VaultFile); err == nil {
				if secrets.ClientID == "" {
					secrets.ClientID = existing.ClientID
				}
				if secrets.ClientSecret == "" {
					secrets.ClientSecret = existing.ClientSecret
				}
				if secrets.DiscordWebhook == "" {
					secrets.DiscordWebhook = existing.DiscordWebhook
				}
			}

			if err := vault.Seal(cfg.Vault.KeyFile, cfg.Vault.VaultFile, secrets); err != nil {
				return fmt.Errorf("seal vault: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sealed credentials into %s\n", cfg.Vault.VaultFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "BoxCast API client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "BoxCast API client secret")
	cmd.Flags().StringVar(&webhook, "webhook", "", "Discord webhook URL")
	return cmd
}

func newVaultShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show which credentials the vault holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			secrets, err := vault.Open(cfg.Vault.KeyFile, cfg.Vault.VaultFile)
			if err != nil {
				return fmt.Errorf("open vault: %w", err)
			}

			rows := [][]string{
				{"Client ID", maskSecret(secrets.ClientID)},
				{"Client secret", sealedLabel(secrets.ClientSecret)},
				{"Discord webhook", sealedLabel(secrets.DiscordWebhook)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{title: "Credential"}, {title: "Value"}},
				rows,
			))
			return nil
		},
	}
}

func sealedLabel(value string) string {
	if value == "" {
		return "(unset)"
	}
	return "(sealed)"
}
