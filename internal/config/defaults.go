package config

const (
	defaultBaseDir             = "~/broadcasts"
	defaultStateFile           = "~/.local/share/carillon/state.json"
	defaultLogDir              = "~/.local/share/carillon/logs"
	defaultLockFile            = "~/.local/share/carillon/carillon.lock"
	defaultAnalyticsDB         = "~/.local/share/carillon/analytics.db"
	defaultAuthURL             = "https://rest.boxcast.com/oauth2/token"
	defaultAPIBase             = "https://rest.boxcast.com"
	defaultRequestTimeout      = 30
	defaultPageLimit           = 100
	defaultVaultKeyFile        = "~/.config/carillon/vault.key"
	defaultVaultFile           = "~/.config/carillon/vault.bin"
	defaultTimezone            = "America/Chicago"
	defaultStartDate           = "2025-11-30"
	defaultDurationMinutes     = 120
	defaultPollIntervalSeconds = 30
	defaultPollMaxAttempts     = 120
	defaultChunkSizeMiB        = 1
	defaultExtension           = ".mp4"
	defaultMinFreeGiB          = 5
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultAnnualEventKeyword  = "christmas at carbondale"
	defaultSundayNightKeyword  = "sunday night"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir:     defaultBaseDir,
			StateFile:   defaultStateFile,
			LogDir:      defaultLogDir,
			LockFile:    defaultLockFile,
			AnalyticsDB: defaultAnalyticsDB,
		},
		BoxCast: BoxCast{
			AuthURL:        defaultAuthURL,
			APIBase:        defaultAPIBase,
			RequestTimeout: defaultRequestTimeout,
			PageLimit:      defaultPageLimit,
		},
		Vault: Vault{
			KeyFile:   defaultVaultKeyFile,
			VaultFile: defaultVaultFile,
		},
		Schedule: Schedule{
			Timezone:               defaultTimezone,
			StartDate:              defaultStartDate,
			DefaultDurationMinutes: defaultDurationMinutes,
		},
		Download: Download{
			PollInterval:    defaultPollIntervalSeconds,
			PollMaxAttempts: defaultPollMaxAttempts,
			ChunkSizeMiB:    defaultChunkSizeMiB,
			Extension:       defaultExtension,
			MinFreeGiB:      defaultMinFreeGiB,
		},
		Organizer: Organizer{
			HolidayOverwrite: true,
		},
		Classify: Classify{
			YouthKeywords:      []string{"youth service"},
			MemorialKeywords:   []string{"memorial"},
			WeddingKeywords:    []string{"wedding"},
			SpecialKeywords:    []string{"special service", "revival", "missions service"},
			AnnualEventKeyword: defaultAnnualEventKeyword,
			SundayNightKeyword: defaultSundayNightKeyword,
			Holidays: []HolidayKeyword{
				{Keyword: "easter", Label: "Easter"},
				{Keyword: "thanksgiving eve", Label: "Thanksgiving Eve"},
				{Keyword: "christmas eve", Label: "Christmas Eve"},
				{Keyword: "good friday", Label: "Good Friday"},
				{Keyword: "new year", Label: "New Year"},
			},
		},
		Notifications: Notifications{
			Backend:        "",
			RequestTimeout: defaultNotifyTimeout,
			Live:           true,
			Schedule:       true,
			Analytics:      true,
			Downloads:      true,
			Uncategorized:  true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
