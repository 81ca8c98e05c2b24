package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Render     RenderConfig
	Cache      CacheConfig
	Log        LogConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds the secret used to verify bearer tokens issued by the
// platform's identity service.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT verification secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	RateLimit    float64 // requests per second per tenant
	RateBurst    int
}

// RenderConfig holds headless Chrome settings.
type RenderConfig struct {
	BrowserBin    string // empty lets rod download or locate a browser
	NoSandbox     bool
	Timeout       time.Duration
	MaxConcurrent int
}

// CacheConfig holds the template cache settings. Disabling it also turns off
// tenant change events, which share the Redis connection.
type CacheConfig struct {
	Enabled     bool
	TemplateTTL time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  zerolog.Level
	Format string // "json" or "text"
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// the JWT secret and DB password must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("SCHOOLDOCS_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("SCHOOLDOCS_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("SCHOOLDOCS_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("SCHOOLDOCS_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	// Rendering a PDF can take most of the render timeout.
	writeTimeout, err := getEnvDuration("SCHOOLDOCS_SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvFloat("SCHOOLDOCS_RATE_LIMIT", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("SCHOOLDOCS_RATE_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	noSandbox, err := getEnvBool("SCHOOLDOCS_RENDER_NO_SANDBOX", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	renderTimeout, err := getEnvDuration("SCHOOLDOCS_RENDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxConcurrent, err := getEnvInt("SCHOOLDOCS_RENDER_MAX_CONCURRENT", 4)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cacheEnabled, err := getEnvBool("SCHOOLDOCS_CACHE_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	templateTTL, err := getEnvDuration("SCHOOLDOCS_CACHE_TEMPLATE_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	logLevel, err := zerolog.ParseLevel(getEnv("SCHOOLDOCS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("config.Load: parsing SCHOOLDOCS_LOG_LEVEL: %w", err)
	}

	selfHosted, err := getEnvBool("SCHOOLDOCS_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("SCHOOLDOCS_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("SCHOOLDOCS_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("SCHOOLDOCS_DB_USER", "schooldocs"),
			Password: getEnv("SCHOOLDOCS_DB_PASSWORD", ""),
			DBName:   getEnv("SCHOOLDOCS_DB_NAME", "schooldocs_dev"),
			SSLMode:  getEnv("SCHOOLDOCS_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("SCHOOLDOCS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("SCHOOLDOCS_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("SCHOOLDOCS_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:         getEnv("SCHOOLDOCS_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			RateLimit:    rateLimit,
			RateBurst:    rateBurst,
		},
		Render: RenderConfig{
			BrowserBin:    getEnv("SCHOOLDOCS_RENDER_BROWSER_BIN", ""),
			NoSandbox:     noSandbox,
			Timeout:       renderTimeout,
			MaxConcurrent: maxConcurrent,
		},
		Cache: CacheConfig{
			Enabled:     cacheEnabled,
			TemplateTTL: templateTTL,
		},
		Log: LogConfig{
			Level:  logLevel,
			Format: strings.ToLower(getEnv("SCHOOLDOCS_LOG_FORMAT", "json")),
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("SCHOOLDOCS_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("SCHOOLDOCS_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("SCHOOLDOCS_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}
	if c.Render.NoSandbox && !c.SelfHosted {
		log.Warn().Msg("SCHOOLDOCS_RENDER_NO_SANDBOX=true disables Chrome's sandbox; use it only inside containers")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("SCHOOLDOCS_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("SCHOOLDOCS_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SCHOOLDOCS_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SCHOOLDOCS_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("SCHOOLDOCS_RATE_LIMIT must be positive, got %g", c.Server.RateLimit)
	}
	if c.Server.RateBurst < 1 {
		return fmt.Errorf("SCHOOLDOCS_RATE_BURST must be >= 1, got %d", c.Server.RateBurst)
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("SCHOOLDOCS_RENDER_TIMEOUT must be positive, got %s", c.Render.Timeout)
	}
	if c.Render.MaxConcurrent < 1 {
		return fmt.Errorf("SCHOOLDOCS_RENDER_MAX_CONCURRENT must be >= 1, got %d", c.Render.MaxConcurrent)
	}
	if c.Cache.TemplateTTL <= 0 {
		return fmt.Errorf("SCHOOLDOCS_CACHE_TEMPLATE_TTL must be positive, got %s", c.Cache.TemplateTTL)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("SCHOOLDOCS_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
