package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
discord:
  guild_id: "g1"
  seed_channel_id: "111"
  gear_channel_id: "222"
poll:
  interval: "45s"
logging:
  level: debug
  console: true
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseYAMLAppliesDefaults(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.yaml", sampleYAML))

	cfg, err := m.Parse()
	require.NoError(t, err)

	assert.Equal(t, "g1", cfg.Discord.GuildID)
	assert.Equal(t, "111", cfg.Discord.SeedChannelID)
	assert.Equal(t, "222", cfg.Discord.GearChannelID)
	assert.Equal(t, "PVB Stocks", cfg.Discord.Vendor)
	assert.Equal(t, 5, cfg.Discord.FetchLimit)
	assert.Equal(t, "./state.json", cfg.Storage.Path)
	assert.Equal(t, ":3000", cfg.Health.Addr)

	d, err := cfg.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.yaml", sampleYAML+"\nsurprise: true\n"))
	_, err := m.Parse()
	require.Error(t, err)
}

func TestParseJSONFile(t *testing.T) {
	t.Parallel()
	m := NewManager(writeConfig(t, "config.json", `{
		"discord": {"guild_id": "g1", "seed_channel_id": "111", "gear_channel_id": "222"},
		"poll": {"interval": "1m"},
		"logging": {"level": "info", "console": true, "file": {"enabled": false, "path": ""}, "webhook": {"enabled": false, "min_level": "", "rate_per_sec": 0}}
	}`))
	cfg, err := m.Parse()
	require.NoError(t, err)
	d, err := cfg.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestLoadPullsSecretsFromEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("STOCK_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")

	m := NewManager(writeConfig(t, "config.yaml", sampleYAML))
	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "https://discord.com/api/webhooks/1/abc", cfg.Discord.WebhookURL)
	assert.Same(t, cfg, m.Get())
}

func TestValidateReportsAllMissing(t *testing.T) {
	t.Parallel()
	var cfg Config
	cfg.ApplyDefaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
	assert.Contains(t, err.Error(), "STOCK_WEBHOOK_URL")
	assert.Contains(t, err.Error(), "discord.guild_id")
	assert.Contains(t, err.Error(), "discord.seed_channel_id")
	assert.Contains(t, err.Error(), "discord.gear_channel_id")
}

func TestValidateRejectsBadInterval(t *testing.T) {
	t.Parallel()
	cfg := Config{
		Discord: DiscordConfig{
			GuildID:       "g1",
			SeedChannelID: "111",
			GearChannelID: "222",
			Token:         "tok",
			WebhookURL:    "https://example.invalid/hook",
		},
		Poll: PollConfig{Interval: "soonish"},
	}
	require.Error(t, cfg.Validate())
}

func TestPollIntervalDefault(t *testing.T) {
	t.Parallel()
	var cfg Config
	d, err := cfg.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}
