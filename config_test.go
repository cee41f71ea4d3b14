package passquiz

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "80808", cfg.Password)
	assert.Equal(t, "./quiz.db", cfg.DBPath)
	assert.Equal(t, "", cfg.QuestionsFile)
	assert.Equal(t, DefaultMaxAttempts, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, DefaultRateWindow, cfg.RateLimit.Window)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.NotEmpty(t, cfg.SessionKey(), "a random key is generated outside production")
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("QUIZ_PASSWORD", "open sesame")
	t.Setenv("RATE_LIMIT_MAX_ATTEMPTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("VERBOSE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []byte("s3cret"), cfg.SessionKey())
	assert.Equal(t, "open sesame", cfg.Password)
	assert.Equal(t, 3, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigRequiresSecretInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\npassword: fromfile\ndb_path: \"\"\nrate_limit:\n  max_attempts: 2\n  window: 30s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port, "environment wins over the file")
	assert.Equal(t, "fromfile", cfg.Password)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, 2, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadLimits(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RATE_LIMIT_MAX_ATTEMPTS", "-1")

	_, err := LoadConfig("")
	assert.Error(t, err)
}
