package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_USER_SECRET", "user-access")
	t.Setenv("JWT_USER_REFRESH_SECRET", "user-refresh")
	t.Setenv("JWT_ADMIN_SECRET", "admin-access")
	t.Setenv("JWT_ADMIN_REFRESH_SECRET", "admin-refresh")
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)
	t.Setenv("STAGE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StageDevelopment, cfg.App.Stage)
	assert.Equal(t, "smartpersona.local", cfg.Cookie.ParentDomain)
	assert.Equal(t, 300*time.Second, cfg.Redis.AccountCacheTTL)
	assert.Equal(t, "user-access", cfg.Auth.UserAccessSecret)
	assert.Equal(t, "admin-refresh", cfg.Auth.AdminRefreshSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	setSecrets(t)
	t.Setenv("JWT_ADMIN_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrConfigMissing)
	assert.Contains(t, err.Error(), "JWT_ADMIN_SECRET")
}

func TestLoad_CollidingSecrets(t *testing.T) {
	setSecrets(t)
	t.Setenv("JWT_ADMIN_SECRET", "user-access")

	_, err := Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigMissing)
}

func TestParseStage(t *testing.T) {
	cases := map[string]Stage{
		"local":       StageLocal,
		"LOCAL":       StageLocal,
		"Production":  StageProduction,
		"development": StageDevelopment,
		"staging":     StageDevelopment,
		"":            StageDevelopment,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseStage(raw), raw)
	}
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
	assert.Equal(t, "0.0.0.0:8080", AppConfig{Host: "0.0.0.0", Port: "8080"}.Addr())
}
