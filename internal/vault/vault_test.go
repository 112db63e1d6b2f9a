package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"carillon/internal/config"
	"carillon/internal/services"
)

func sealTestVault(t *testing.T, secrets Secrets) (string, string) {
	t.Helper()
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "vault.key")
	vaultFile := filepath.Join(dir, "vault.bin")
	if err := Seal(keyFile, vaultFile, secrets); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	return keyFile, vaultFile
}

func TestSealAndOpenRoundtrip(t *testing.T) {
	want := Secrets{
		ClientID:       "client-1",
		ClientSecret:   "secret-1",
		DiscordWebhook: "https://discord.example.com/hook",
	}
	keyFile, vaultFile := sealTestVault(t, want)

	got, err := Open(keyFile, vaultFile)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got != want {
		t.Errorf("secrets = %+v, want %+v", got, want)
	}

	info, err := os.Stat(keyFile)
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key permissions = %o, want 600", perm)
	}
}

func TestSealReusesExistingKey(t *testing.T) {
	keyFile, vaultFile := sealTestVault(t, Secrets{ClientID: "a", ClientSecret: "b"})
	before, err := os.ReadFile(keyFile)
	if err != nil {
		t.Fatalf("read key: %v", err)
	}

	if err := Seal(keyFile, vaultFile, Secrets{ClientID: "c", ClientSecret: "d"}); err != nil {
		t.Fatalf("reseal: %v", err)
	}
	after, err := os.ReadFile(keyFile)
	if err != nil {
		t.Fatalf("read key: %v", err)
	}
	if string(before) != string(after) {
		t.Error("resealing replaced the key")
	}

	got, err := Open(keyFile, vaultFile)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.ClientID != "c" {
		t.Errorf("ClientID = %q, want c", got.ClientID)
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	_, vaultFile := sealTestVault(t, Secrets{ClientID: "a", ClientSecret: "b"})
	otherKey, _ := sealTestVault(t, Secrets{})

	_, err := Open(otherKey, vaultFile)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestFillLeavesExplicitCredentialsAlone(t *testing.T) {
	cfg := config.Default()
	cfg.BoxCast.ClientID = "explicit"
	cfg.BoxCast.ClientSecret = "explicit-secret"
	cfg.Vault.KeyFile = "/nonexistent/vault.key"
	cfg.Vault.VaultFile = "/nonexistent/vault.bin"

	if err := Fill(&cfg); err != nil {
		t.Fatalf("Fill should not touch the vault: %v", err)
	}
	if cfg.BoxCast.ClientID != "explicit" {
		t.Errorf("ClientID = %q", cfg.BoxCast.ClientID)
	}
}

func TestFillResolvesMissingCredentials(t *testing.T) {
	keyFile, vaultFile := sealTestVault(t, Secrets{
		ClientID:       "vault-client",
		ClientSecret:   "vault-secret",
		DiscordWebhook: "https://discord.example.com/hook",
	})

	cfg := config.Default()
	cfg.Vault.KeyFile = keyFile
	cfg.Vault.VaultFile = vaultFile
	cfg.Notifications.Backend = "discord"

	if err := Fill(&cfg); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if cfg.BoxCast.ClientID != "vault-client" || cfg.BoxCast.ClientSecret != "vault-secret" {
		t.Errorf("credentials = %q/%q", cfg.BoxCast.ClientID, cfg.BoxCast.ClientSecret)
	}
	if cfg.Notifications.WebhookURL != "https://discord.example.com/hook" {
		t.Errorf("webhook = %q", cfg.Notifications.WebhookURL)
	}
}

func TestFillReportsEmptyVault(t *testing.T) {
	keyFile, vaultFile := sealTestVault(t, Secrets{})

	cfg := config.Default()
	cfg.Vault.KeyFile = keyFile
	cfg.Vault.VaultFile = vaultFile

	err := Fill(&cfg)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}
