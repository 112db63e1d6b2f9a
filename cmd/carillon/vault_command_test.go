package main

import (
	"path/filepath"
	"strings"
	"testing"

	"carillon/internal/vault"
)

func TestVaultSetAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	keyFile := filepath.Join(env.baseDir, "state", "vault.key")
	vaultFile := filepath.Join(env.baseDir, "state", "vault.bin")

	out, _, err := runCLI(t, []string{
		"vault", "set",
		"--client-id", "acct-12345",
		"--client-secret", "sekrit",
	}, env.configPath)
	if err != nil {
		t.Fatalf("vault set: %v", err)
	}
	requireContains(t, out, "Sealed credentials into")

	secrets, err := vault.Open(keyFile, vaultFile)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	if secrets.ClientID != "acct-12345" || secrets.ClientSecret != "sekrit" {
		t.Fatalf("unexpected sealed secrets: %+v", secrets)
	}

	out, _, err = runCLI(t, []string{"vault", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("vault show: %v", err)
	}
	requireContains(t, out, "acct*******")
	requireContains(t, out, "(sealed)")
	requireContains(t, out, "(unset)")
	if strings.Contains(out, "sekrit") {
		t.Fatalf("expected secret to stay hidden, got %q", out)
	}
}

func TestVaultSetPreservesExistingValues(t *testing.T) {
	env := setupCLITestEnv(t)
	keyFile := filepath.Join(env.baseDir, "state", "vault.key")
	vaultFile := filepath.Join(env.baseDir, "state", "vault.bin")

	if _, _, err := runCLI(t, []string{
		"vault", "set",
		"--client-id", "acct-12345",
		"--client-secret", "sekrit",
	}, env.configPath); err != nil {
		t.Fatalf("vault set: %v", err)
	}

	if _, _, err := runCLI(t, []string{
		"vault", "set",
		"--webhook", "https://discord.example/hook",
	}, env.configPath); err != nil {
		t.Fatalf("vault set webhook: %v", err)
	}

	secrets, err := vault.Open(keyFile, vaultFile)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	if secrets.ClientID != "acct-12345" || secrets.ClientSecret != "sekrit" {
		t.Fatalf("expected API credentials preserved, got %+v", secrets)
	}
	if secrets.DiscordWebhook != "https://discord.example/hook" {
		t.Fatalf("expected webhook sealed, got %q", secrets.DiscordWebhook)
	}
}

func TestVaultSetRequiresFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"vault", "set"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when no flags are given")
	}
	requireContains(t, err.Error(), "nothing to seal")
}
