package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Directory DirectoryConfig `koanf:"directory"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string          `koanf:"host"`
	Port      int             `koanf:"port"`
	Mode      string          `koanf:"mode"`
	Timeout   string          `koanf:"timeout"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Cache     CacheConfig     `koanf:"cache"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig limits the seed endpoint per client IP.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`
	RPS     int  `koanf:"rps"`
	Burst   int  `koanf:"burst"`
}

// CacheConfig holds listing response caching settings.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	TTL     string `koanf:"ttl"`
	MaxSize int    `koanf:"max_size"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver      string         `koanf:"driver"`
	AutoMigrate bool           `koanf:"auto_migrate"`
	SQLite      SQLiteConfig   `koanf:"sqlite"`
	Postgres    PostgresConfig `koanf:"postgres"`
	Pool        PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	Console         *bool  `koanf:"console"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// DirectoryConfig tunes the advocate directory pages.
type DirectoryConfig struct {
	// PageWindow is how many numbered page links the pager shows.
	PageWindow int `koanf:"page_window"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__DATABASE__POOL__MAX_IDLE_CONNS=20 overrides database.pool.max_idle_conns.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML config file.
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// Overlay environment variables with prefix APP__.
	// APP__SERVER__PORT -> server.port
	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks supported values and normalises whitespace in place.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateLog,
		c.validateMetrics,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	if c.Directory.PageWindow < 0 {
		return fmt.Errorf("invalid directory.page_window %d: must not be negative", c.Directory.PageWindow)
	}
	return nil
}

func (c *Config) validateServer() error {
	s := &c.Server

	mode := strings.TrimSpace(s.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		s.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", s.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if !validPort(s.Port) {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", s.Port)
	}
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		return fmt.Errorf("server.host is required")
	}

	var err error
	if s.Timeout, err = optionalDuration("server.timeout", s.Timeout); err != nil {
		return err
	}
	if s.CORS.MaxAge, err = optionalDuration("server.cors.max_age", s.CORS.MaxAge); err != nil {
		return err
	}
	if s.CORS.AllowCredentials && slices.Contains(s.CORS.AllowOrigins, "*") {
		return fmt.Errorf("server.cors.allow_origins cannot contain %q when allow_credentials is true", "*")
	}

	if s.RateLimit.Enabled {
		if s.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid server.rate_limit.rps %d: must be positive when rate limiting is enabled", s.RateLimit.RPS)
		}
		if s.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", s.RateLimit.Burst)
		}
	}

	s.Cache.TTL = strings.TrimSpace(s.Cache.TTL)
	if s.Cache.Enabled {
		if s.Cache.TTL == "" {
			return fmt.Errorf("server.cache.ttl is required when caching is enabled")
		}
		if _, err := optionalDuration("server.cache.ttl", s.Cache.TTL); err != nil {
			return err
		}
		if s.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid server.cache.max_size %d: must be positive when caching is enabled", s.Cache.MaxSize)
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	d := &c.Database

	switch d.Driver {
	case "sqlite":
		d.SQLite.Path = strings.TrimSpace(d.SQLite.Path)
		if d.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
	case "postgres":
		if err := validatePostgres(&d.Postgres, c.Server.Mode); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", d.Driver, "sqlite", "postgres")
	}

	var err error
	d.Pool.ConnMaxLifetime, err = optionalDuration("database.pool.conn_max_lifetime", d.Pool.ConnMaxLifetime)
	return err
}

func validatePostgres(pg *PostgresConfig, mode string) error {
	pg.Host = strings.TrimSpace(pg.Host)
	pg.User = strings.TrimSpace(pg.User)
	pg.DBName = strings.TrimSpace(pg.DBName)
	pg.SSLMode = strings.TrimSpace(pg.SSLMode)

	switch {
	case pg.Host == "":
		return fmt.Errorf("database.postgres.host is required when driver is postgres")
	case !validPort(pg.Port):
		return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
	case pg.User == "":
		return fmt.Errorf("database.postgres.user is required when driver is postgres")
	case pg.DBName == "":
		return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
	}

	allowed := []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	if !slices.Contains(allowed, pg.SSLMode) {
		return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %s", pg.SSLMode, strings.Join(allowed, ", "))
	}
	if mode == gin.ReleaseMode && !slices.Contains(allowed[3:], pg.SSLMode) {
		return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %s", pg.SSLMode, gin.ReleaseMode, strings.Join(allowed[3:], ", "))
	}
	return nil
}

func (c *Config) validateLog() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	c.Metrics.Path = strings.TrimSpace(c.Metrics.Path)
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics.path %q: must start with '/'", c.Metrics.Path)
	}
	return nil
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// optionalDuration trims v and, when non-empty, requires a positive Go duration.
func optionalDuration(key, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return "", fmt.Errorf("invalid %s %q: must be greater than 0", key, v)
	}
	return v, nil
}
