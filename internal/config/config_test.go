package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "farm-pass")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("SHEET_ACCESS_TOKEN", "")
	t.Setenv("SHEET_API_TOKEN", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "data/records.csv", cfg.FallbackPath)
	assert.Equal(t, "farmbook", cfg.ArkeselSenderID)
	assert.Equal(t, "Africa/Accra", cfg.AppTimezone)
	assert.False(t, cfg.FallbackEnabled)
	assert.Contains(t, cfg.CORSAllowedOrigins, "http://localhost:5173")
}

func TestLoadRequiredVariables(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	setRequired(t)
	t.Setenv("ADMIN_USERNAME", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_USERNAME")

	setRequired(t)
	t.Setenv("ADMIN_PASSWORD", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestLoadPasswordHashAloneIsEnough(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.AdminPassword)
	assert.NotEmpty(t, cfg.AdminPasswordHash)
}

func TestLoadSheetTokenAliases(t *testing.T) {
	setRequired(t)
	t.Setenv("SHEET_API_TOKEN", "alias-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alias-token", cfg.SheetAccessToken)

	t.Setenv("SHEET_ACCESS_TOKEN", "primary-token")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-token", cfg.SheetAccessToken)
}

func TestBoolEnvSpellings(t *testing.T) {
	setRequired(t)
	for value, want := range map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "no": false, "junk": false,
	} {
		t.Setenv("FALLBACK_ENABLED", value)
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, want, cfg.FallbackEnabled, value)
	}
}

func TestSplitCSVEnvTrimsAndDropsEmpties(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://farmbook.example , ,https://admin.farmbook.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://farmbook.example", "https://admin.farmbook.example"}, cfg.CORSAllowedOrigins)
}
