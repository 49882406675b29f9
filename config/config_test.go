package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "draft_mode_dev.db", cfg.SqliteDB)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SQLITE_DB", "/tmp/drafts.db")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/drafts.db", cfg.SqliteDB)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.LogPretty)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingSecret(t *testing.T) {
	cfg := &Config{SqliteDB: "x.db", LoginRatePerMinute: 1}
	assert.Error(t, cfg.Validate())
}

func TestString_MasksSecret(t *testing.T) {
	cfg := &Config{SessionSecret: "topsecret"}
	assert.NotContains(t, cfg.String(), "topsecret")
	assert.Contains(t, cfg.String(), "********")
}
