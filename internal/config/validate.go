package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBoxCast(); err != nil {
		return err
	}
	if err := c.validateClassify(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		return errors.New("paths.base_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateFile) == "" {
		return errors.New("paths.state_file must be set")
	}
	return nil
}

func (c *Config) validateBoxCast() error {
	if c.BoxCast.AuthURL == "" {
		return errors.New("boxcast.auth_url must be set")
	}
	if c.BoxCast.APIBase == "" {
		return errors.New("boxcast.api_base must be set")
	}
	// Credentials may come from the vault instead; the run checks again
	// after vault decryption.
	return nil
}

func (c *Config) validateClassify() error {
	seen := make(map[string]struct{}, len(c.Classify.Holidays))
	for _, h := range c.Classify.Holidays {
		if _, dup := seen[h.Keyword]; dup {
			return fmt.Errorf("classify.holidays: duplicate keyword %q", h.Keyword)
		}
		seen[h.Keyword] = struct{}{}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	switch c.Notifications.Backend {
	case "", "none":
		return nil
	case "discord":
		if c.Notifications.WebhookURL == "" && !c.vaultConfigured() {
			return errors.New("notifications.webhook_url must be set when notifications.backend is \"discord\"")
		}
	case "ntfy":
		if c.Notifications.NtfyTopic == "" {
			return errors.New("notifications.ntfy_topic must be set when notifications.backend is \"ntfy\"")
		}
	default:
		return fmt.Errorf("notifications.backend: unsupported value %q", c.Notifications.Backend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) vaultConfigured() bool {
	return strings.TrimSpace(c.Vault.KeyFile) != "" && strings.TrimSpace(c.Vault.VaultFile) != ""
}
