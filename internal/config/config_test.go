package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PERMISSIONS_ROLE_ID", "role")
	t.Setenv("REMOVE_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Discord.Token)
	assert.True(t, cfg.Discord.InitSlashCommands)
	assert.Empty(t, cfg.Discord.GuildBlacklist)
	assert.Equal(t, "db/accounts.db", cfg.Storage.Path)
	assert.Equal(t, "role", cfg.Market.PermissionsRoleID)
	assert.Equal(t, "secret", cfg.Market.RemovePassword)
	assert.Equal(t, 5*time.Second, cfg.Profile.Timeout)
	assert.Contains(t, cfg.Profile.AvatarURL, "$uuid")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_GUILD_BLACKLIST", "1,2")
	t.Setenv("INIT_SLASH_COMMANDS", "false")
	t.Setenv("SOLD_CATEGORY_ID", "42")
	t.Setenv("LOCALE", "es")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, cfg.Discord.GuildBlacklist)
	assert.False(t, cfg.Discord.InitSlashCommands)
	assert.Equal(t, map[string]string{"sold": "42"}, cfg.Categories.IDs())
	assert.Equal(t, "es", cfg.Locale)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PERMISSIONS_ROLE_ID", "")
	t.Setenv("REMOVE_PASSWORD", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadStorage(t *testing.T) {
	t.Setenv("STORAGE_PATH", "/tmp/market.db")

	st, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/market.db", st.Path)
}
