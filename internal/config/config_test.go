package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32ch"

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "SCHOOLDOCS_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "SCHOOLDOCS_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "SCHOOLDOCS_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			assert.Equal(t, tc.want, getEnv(tc.key, tc.fallback))
		})
	}
}

func TestGetEnvNumbers(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		t.Setenv("SCHOOLDOCS_TEST_INT", "8080")
		n, err := getEnvInt("SCHOOLDOCS_TEST_INT", 0)
		require.NoError(t, err)
		assert.Equal(t, 8080, n)

		t.Setenv("SCHOOLDOCS_TEST_INT", "3.14")
		_, err = getEnvInt("SCHOOLDOCS_TEST_INT", 0)
		assert.ErrorContains(t, err, "SCHOOLDOCS_TEST_INT")
	})

	t.Run("float", func(t *testing.T) {
		t.Setenv("SCHOOLDOCS_TEST_FLOAT", "2.5")
		f, err := getEnvFloat("SCHOOLDOCS_TEST_FLOAT", 0)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, f, 1e-9)

		f, err = getEnvFloat("SCHOOLDOCS_TEST_FLOAT_UNSET", 7)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, f, 1e-9)

		t.Setenv("SCHOOLDOCS_TEST_FLOAT", "fast")
		_, err = getEnvFloat("SCHOOLDOCS_TEST_FLOAT", 0)
		assert.ErrorContains(t, err, "SCHOOLDOCS_TEST_FLOAT")
	})

	t.Run("bool", func(t *testing.T) {
		t.Setenv("SCHOOLDOCS_TEST_BOOL", "TRUE")
		b, err := getEnvBool("SCHOOLDOCS_TEST_BOOL", false)
		require.NoError(t, err)
		assert.True(t, b)

		t.Setenv("SCHOOLDOCS_TEST_BOOL", "yes")
		_, err = getEnvBool("SCHOOLDOCS_TEST_BOOL", false)
		assert.ErrorContains(t, err, "SCHOOLDOCS_TEST_BOOL")
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("SCHOOLDOCS_TEST_DUR", "1h30m")
		d, err := getEnvDuration("SCHOOLDOCS_TEST_DUR", 0)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, d)

		t.Setenv("SCHOOLDOCS_TEST_DUR", "30")
		_, err = getEnvDuration("SCHOOLDOCS_TEST_DUR", 0)
		assert.ErrorContains(t, err, "SCHOOLDOCS_TEST_DUR")
	})
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("SCHOOLDOCS_TEST_LIST", " https://a.example , ,https://b.example")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvList("SCHOOLDOCS_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("SCHOOLDOCS_TEST_LIST_UNSET", []string{"x"}))
}

// ---------------------------------------------------------------------------
// Load()
// ---------------------------------------------------------------------------

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("SCHOOLDOCS_JWT_SECRET", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SCHOOLDOCS_JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SCHOOLDOCS_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=localhost port=5432 user=schooldocs password= dbname=schooldocs_dev sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Render.Timeout)
	assert.Equal(t, 4, cfg.Render.MaxConcurrent)
	assert.False(t, cfg.Render.NoSandbox)
	assert.Empty(t, cfg.Render.BrowserBin)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TemplateTTL)
	assert.Equal(t, zerolog.InfoLevel, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCHOOLDOCS_JWT_SECRET", testSecret)
	t.Setenv("SCHOOLDOCS_RENDER_BROWSER_BIN", "/usr/bin/chromium")
	t.Setenv("SCHOOLDOCS_RENDER_NO_SANDBOX", "true")
	t.Setenv("SCHOOLDOCS_RENDER_MAX_CONCURRENT", "1")
	t.Setenv("SCHOOLDOCS_CACHE_ENABLED", "false")
	t.Setenv("SCHOOLDOCS_CACHE_TEMPLATE_TTL", "30s")
	t.Setenv("SCHOOLDOCS_LOG_LEVEL", "debug")
	t.Setenv("SCHOOLDOCS_LOG_FORMAT", "TEXT")
	t.Setenv("SCHOOLDOCS_RATE_LIMIT", "0.5")
	t.Setenv("SCHOOLDOCS_CORS_ORIGINS", "https://app.school.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/chromium", cfg.Render.BrowserBin)
	assert.True(t, cfg.Render.NoSandbox)
	assert.Equal(t, 1, cfg.Render.MaxConcurrent)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TemplateTTL)
	assert.Equal(t, zerolog.DebugLevel, cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.InDelta(t, 0.5, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, []string{"https://app.school.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		{name: "DB_PORT not a number", envKey: "SCHOOLDOCS_DB_PORT", envVal: "abc", errMsg: "SCHOOLDOCS_DB_PORT"},
		{name: "DB_PORT too high", envKey: "SCHOOLDOCS_DB_PORT", envVal: "65536", errMsg: "SCHOOLDOCS_DB_PORT"},
		{name: "DB_MAX_CONNS zero", envKey: "SCHOOLDOCS_DB_MAX_CONNS", envVal: "0", errMsg: "SCHOOLDOCS_DB_MAX_CONNS"},
		{name: "REDIS_DB not a number", envKey: "SCHOOLDOCS_REDIS_DB", envVal: "abc", errMsg: "SCHOOLDOCS_REDIS_DB"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "SCHOOLDOCS_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "SCHOOLDOCS_SERVER_WRITE_TIMEOUT"},
		{name: "RATE_LIMIT zero", envKey: "SCHOOLDOCS_RATE_LIMIT", envVal: "0", errMsg: "SCHOOLDOCS_RATE_LIMIT"},
		{name: "RATE_BURST zero", envKey: "SCHOOLDOCS_RATE_BURST", envVal: "0", errMsg: "SCHOOLDOCS_RATE_BURST"},
		{name: "RENDER_TIMEOUT invalid", envKey: "SCHOOLDOCS_RENDER_TIMEOUT", envVal: "soon", errMsg: "SCHOOLDOCS_RENDER_TIMEOUT"},
		{name: "RENDER_TIMEOUT negative", envKey: "SCHOOLDOCS_RENDER_TIMEOUT", envVal: "-1s", errMsg: "SCHOOLDOCS_RENDER_TIMEOUT"},
		{name: "RENDER_MAX_CONCURRENT zero", envKey: "SCHOOLDOCS_RENDER_MAX_CONCURRENT", envVal: "0", errMsg: "SCHOOLDOCS_RENDER_MAX_CONCURRENT"},
		{name: "RENDER_NO_SANDBOX not a bool", envKey: "SCHOOLDOCS_RENDER_NO_SANDBOX", envVal: "maybe", errMsg: "SCHOOLDOCS_RENDER_NO_SANDBOX"},
		{name: "CACHE_TEMPLATE_TTL zero", envKey: "SCHOOLDOCS_CACHE_TEMPLATE_TTL", envVal: "0s", errMsg: "SCHOOLDOCS_CACHE_TEMPLATE_TTL"},
		{name: "LOG_LEVEL unknown", envKey: "SCHOOLDOCS_LOG_LEVEL", envVal: "loud", errMsg: "SCHOOLDOCS_LOG_LEVEL"},
		{name: "LOG_FORMAT unknown", envKey: "SCHOOLDOCS_LOG_FORMAT", envVal: "xml", errMsg: "SCHOOLDOCS_LOG_FORMAT"},
		{name: "SELF_HOSTED not a bool", envKey: "SCHOOLDOCS_SELF_HOSTED", envVal: "yes", errMsg: "SCHOOLDOCS_SELF_HOSTED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SCHOOLDOCS_JWT_SECRET", testSecret)
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Port: 5432, MaxConns: 25, SSLMode: "require"},
			JWT:      JWTConfig{Secret: testSecret},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				RateLimit:    20,
				RateBurst:    40,
			},
			Render: RenderConfig{Timeout: 30 * time.Second, MaxConcurrent: 2},
			Cache:  CacheConfig{TemplateTTL: time.Minute},
			Log:    LogConfig{Level: zerolog.InfoLevel, Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid config passes", mutate: func(*Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWT.Secret = "only-31-characters-long-secret!" }, wantErr: "SCHOOLDOCS_JWT_SECRET"},
		{name: "secret exactly 32 chars", mutate: func(c *Config) { c.JWT.Secret = "exactly-32-characters-long-sec!!" }},
		{name: "port 0", mutate: func(c *Config) { c.Database.Port = 0 }, wantErr: "SCHOOLDOCS_DB_PORT"},
		{name: "read timeout 0", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: "SCHOOLDOCS_SERVER_READ_TIMEOUT"},
		{name: "render timeout 0", mutate: func(c *Config) { c.Render.Timeout = 0 }, wantErr: "SCHOOLDOCS_RENDER_TIMEOUT"},
		{name: "no render slots", mutate: func(c *Config) { c.Render.MaxConcurrent = 0 }, wantErr: "SCHOOLDOCS_RENDER_MAX_CONCURRENT"},
		{name: "cache ttl negative", mutate: func(c *Config) { c.Cache.TemplateTTL = -time.Second }, wantErr: "SCHOOLDOCS_CACHE_TEMPLATE_TTL"},
		{name: "self hosted no sandbox", mutate: func(c *Config) { c.SelfHosted = true; c.Render.NoSandbox = true }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := validBase()
			tc.mutate(c)
			err := c.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	t.Parallel()

	c := DatabaseConfig{Host: "db.prod", Port: 5433, User: "admin", Password: "p@ss!", DBName: "schooldocs", SSLMode: "require"}
	assert.Equal(t, "host=db.prod port=5433 user=admin password=p@ss! dbname=schooldocs sslmode=require", c.DSN())
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
