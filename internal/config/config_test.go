package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 chars

func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret:  testSecret,
			BcryptCost: 12,
		},
		SRS: SRSConfig{
			DefaultEaseFactor: 2.5,
			MinEaseFactor:     1.3,
			MaxIntervalDays:   365,
			FirstReviewDelay:  0,
			DueLimitDefault:   10,
			DueLimitMax:       100,
		},
		Progress:  ProgressConfig{DefaultRequiredScore: 80},
		RateLimit: RateLimitConfig{RequestsPerMinute: 300},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }, "bcrypt_cost"},
		{"zero min ease", func(c *Config) { c.SRS.MinEaseFactor = 0 }, "min_ease_factor"},
		{"default ease below floor", func(c *Config) { c.SRS.DefaultEaseFactor = 1.0 }, "default_ease_factor"},
		{"zero max interval", func(c *Config) { c.SRS.MaxIntervalDays = 0 }, "max_interval_days"},
		{"zero due limit", func(c *Config) { c.SRS.DueLimitDefault = 0 }, "due_limit_default"},
		{"due max below default", func(c *Config) { c.SRS.DueLimitMax = 5 }, "due_limit_max"},
		{"required score over 100", func(c *Config) { c.Progress.DefaultRequiredScore = 150 }, "default_required_score"},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, "requests_per_minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/lexivon")
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SRS_MAX_INTERVAL", "180")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/lexivon", cfg.Database.DSN)
	assert.Equal(t, 180, cfg.SRS.MaxIntervalDays)
	// Defaults.
	assert.Equal(t, 2.5, cfg.SRS.DefaultEaseFactor)
	assert.Equal(t, 80, cfg.Progress.DefaultRequiredScore)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}
