package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fernet/fernet-go"

	"carillon/internal/config"
	"carillon/internal/services"
)

// Secrets holds the credentials stored in the encrypted vault.
type Secrets struct {
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	DiscordWebhook string `json:"discord_webhook,omitempty"`
}

// Open reads and decrypts the vault. The key file holds one base64 fernet
// key; the vault file holds a fernet token wrapping a JSON document.
func Open(keyFile, vaultFile string) (Secrets, error) {
	rawKey, err := os.ReadFile(keyFile)
	if err != nil {
		return Secrets{}, fmt.Errorf("read vault key: %w", err)
	}
	key, err := fernet.DecodeKey(strings.TrimSpace(string(rawKey)))
	if err != nil {
		return Secrets{}, services.Wrap(services.ErrConfiguration, "vault", "decode key", keyFile, err)
	}

	token, err := os.ReadFile(vaultFile)
	if err != nil {
		return Secrets{}, fmt.Errorf("read vault: %w", err)
	}
	plain := fernet.VerifyAndDecrypt([]byte(strings.TrimSpace(string(token))), 0, []*fernet.Key{key})
	if plain == nil {
		return Secrets{}, services.Wrap(services.ErrConfiguration, "vault", "decrypt", vaultFile,
			errors.New("token rejected; wrong key or corrupt vault"))
	}

	var secrets Secrets
	if err := json.Unmarshal(plain, &secrets); err != nil {
		return Secrets{}, services.Wrap(services.ErrConfiguration, "vault", "parse", vaultFile, err)
	}
	return secrets, nil
}

// Seal encrypts secrets into the vault file, generating a key file when one
// does not already exist. Both files are written with owner-only permissions.
func Seal(keyFile, vaultFile string, secrets Secrets) error {
	var key *fernet.Key
	if raw, err := os.ReadFile(keyFile); err == nil {
		key, err = fernet.DecodeKey(strings.TrimSpace(string(raw)))
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "vault", "decode key", keyFile, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return fmt.Errorf("generate vault key: %w", err)
		}
		if err := os.WriteFile(keyFile, []byte(key.Encode()), 0o600); err != nil {
			return fmt.Errorf("write vault key: %w", err)
		}
	} else {
		return fmt.Errorf("read vault key: %w", err)
	}

	plain, err := json.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("encode secrets: %w", err)
	}
	token, err := fernet.EncryptAndSign(plain, key)
	if err != nil {
		return fmt.Errorf("encrypt vault: %w", err)
	}
	if err := os.WriteFile(vaultFile, token, 0o600); err != nil {
		return fmt.Errorf("write vault: %w", err)
	}
	return nil
}

// Fill resolves missing credentials from the vault. Credentials already
// present in the config win; when all are set the vault is never touched.
// A missing vault is only an error when a credential still needs it.
func Fill(cfg *config.Config) error {
	needAPI := cfg.BoxCast.ClientID == "" || cfg.BoxCast.ClientSecret == ""
	needWebhook := strings.EqualFold(cfg.Notifications.Backend, "discord") && cfg.Notifications.WebhookURL == ""
	if !needAPI && !needWebhook {
		return nil
	}

	secrets, err := Open(cfg.Vault.KeyFile, cfg.Vault.VaultFile)
	if err != nil {
		return err
	}

	if cfg.BoxCast.ClientID == "" {
		cfg.BoxCast.ClientID = secrets.ClientID
	}
	if cfg.BoxCast.ClientSecret == "" {
		cfg.BoxCast.ClientSecret = secrets.ClientSecret
	}
	if needWebhook {
		cfg.Notifications.WebhookURL = secrets.DiscordWebhook
	}

	if needAPI && (cfg.BoxCast.ClientID == "" || cfg.BoxCast.ClientSecret == "") {
		return services.Wrap(services.ErrConfiguration, "vault", "fill", "",
			errors.New("vault does not contain API credentials"))
	}
	return nil
}
