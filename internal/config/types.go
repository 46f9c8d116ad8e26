package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the full startup configuration. Secrets (token, webhook URL) are
// never read from the file; they come from the environment (see FromEnv) so
// the config file can be committed.
type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	Poll     PollConfig     `json:"poll"`
	Logging  LoggingConfig  `json:"logging"`
	Storage  StorageConfig  `json:"storage,omitempty"`
	Health   HealthConfig   `json:"health,omitempty"`
	Priority PriorityConfig `json:"priority,omitempty"`
}

type DiscordConfig struct {
	GuildID       string `json:"guild_id"`
	SeedChannelID string `json:"seed_channel_id"`
	GearChannelID string `json:"gear_channel_id"`
	// Vendor is the author display-name substring that marks inventory posts.
	Vendor     string `json:"vendor,omitempty"`
	FetchLimit int    `json:"fetch_limit,omitempty"`

	// Populated from the environment, not the file.
	Token      string `json:"-"`
	WebhookURL string `json:"-"`
}

type PollConfig struct {
	// Interval is a Go duration string (e.g. "30s", "2m").
	Interval string `json:"interval,omitempty"`
}

type LoggingConfig struct {
	Level   string         `json:"level"`
	Console bool           `json:"console"`
	File    LoggingFile    `json:"file"`
	Webhook LoggingWebhook `json:"webhook"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingWebhook mirrors logx.WebhookConfig: forward >= min_level events to
// the stock webhook so failures are visible in the channel.
type LoggingWebhook struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// StorageConfig controls the held-state persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./state.json" }
type StorageConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// HealthConfig controls the liveness + metrics HTTP server.
type HealthConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default ":3000"
}

// PriorityConfig overrides the built-in high-value item lists. Empty lists
// fall back to the catalog defaults.
type PriorityConfig struct {
	Seeds []string `json:"seeds,omitempty"`
	Gear  []string `json:"gear,omitempty"`
}

const (
	defaultPollInterval = 30 * time.Second
	defaultFetchLimit   = 5
	defaultVendor       = "PVB Stocks"
	defaultStoragePath  = "./state.json"
	defaultHealthAddr   = ":3000"
)

// FromEnv pulls the secrets in. Call after Parse, before Validate.
func (c *Config) FromEnv() {
	if v := strings.TrimSpace(os.Getenv("DISCORD_TOKEN")); v != "" {
		c.Discord.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("STOCK_WEBHOOK_URL")); v != "" {
		c.Discord.WebhookURL = v
	}
}

// Validate checks everything the process cannot run without. It reports all
// missing fields at once so an operator fixes them in one pass.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Discord.Token) == "" {
		missing = append(missing, "DISCORD_TOKEN (env)")
	}
	if strings.TrimSpace(c.Discord.WebhookURL) == "" {
		missing = append(missing, "STOCK_WEBHOOK_URL (env)")
	}
	if strings.TrimSpace(c.Discord.GuildID) == "" {
		missing = append(missing, "discord.guild_id")
	}
	if strings.TrimSpace(c.Discord.SeedChannelID) == "" {
		missing = append(missing, "discord.seed_channel_id")
	}
	if strings.TrimSpace(c.Discord.GearChannelID) == "" {
		missing = append(missing, "discord.gear_channel_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if _, err := c.PollInterval(); err != nil {
		return err
	}
	if _, err := c.StorageBusyTimeout(); err != nil {
		return err
	}
	return nil
}

// ApplyDefaults fills the optional knobs.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Discord.Vendor) == "" {
		c.Discord.Vendor = defaultVendor
	}
	if c.Discord.FetchLimit <= 0 {
		c.Discord.FetchLimit = defaultFetchLimit
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		c.Storage.Path = defaultStoragePath
	}
	if strings.TrimSpace(c.Health.Addr) == "" {
		c.Health.Addr = defaultHealthAddr
	}
}

// PollInterval parses poll.interval, defaulting to 30s.
func (c *Config) PollInterval() (time.Duration, error) {
	return parseDurationOrDefault("poll.interval", c.Poll.Interval, defaultPollInterval)
}

// StorageBusyTimeout parses storage.busy_timeout (sqlite only).
func (c *Config) StorageBusyTimeout() (time.Duration, error) {
	return parseDurationField("storage.busy_timeout", c.Storage.BusyTimeout)
}

func parseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func parseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := parseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
