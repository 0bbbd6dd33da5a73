package database

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	defaultMaxConns       = 60
	defaultMinConns       = 5
	defaultIdleTimeout    = 60 * time.Second
	defaultConnectTimeout = 15 * time.Second
)

// ConnectionOptions tunes how individual connections are established.
// The three flags default to true when left nil; use Bool to override.
type ConnectionOptions struct {
	TrustServerCertificate *bool `yaml:"trust_server_certificate"`
	TrustedConnection      *bool `yaml:"trusted_connection"`
	EnableArithAbort       *bool `yaml:"enable_arith_abort"`

	// Extra holds arbitrary engine-specific flags appended verbatim to the
	// connection string.
	Extra map[string]string `yaml:"extra"`
}

// TrustServerCertificateOrDefault resolves the flag against its default (true).
func (o ConnectionOptions) TrustServerCertificateOrDefault() bool {
	return o.TrustServerCertificate == nil || *o.TrustServerCertificate
}

// TrustedConnectionOrDefault resolves the flag against its default (true).
func (o ConnectionOptions) TrustedConnectionOrDefault() bool {
	return o.TrustedConnection == nil || *o.TrustedConnection
}

// EnableArithAbortOrDefault resolves the flag against its default (true).
func (o ConnectionOptions) EnableArithAbortOrDefault() bool {
	return o.EnableArithAbort == nil || *o.EnableArithAbort
}

// PoolOptions sizes the shared connection pool.
type PoolOptions struct {
	MaxConns       int32         `yaml:"max_conns"`
	MinConns       int32         `yaml:"min_conns"`
	IdleTimeout    time.Duration `yaml:"-"`
	ConnectTimeout time.Duration `yaml:"-"`
}

// Config holds everything needed to connect to and pool a database.
// It is handed to New once and treated as immutable afterwards.
type Config struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`

	Options ConnectionOptions `yaml:"options"`
	Pool    PoolOptions       `yaml:"pool"`
}

// DefaultConfig returns a Config carrying the documented defaults:
// certificate trust, integrated auth and arithmetic abort enabled,
// pool sized 60/5 with a 60s idle timeout.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.normalize()
	return cfg
}

// FromEnv builds a Config from the process environment, reading the exact
// keys db_user, db_password, server and database. Missing keys default to
// the empty string; pool defaults are backfilled as usual.
func FromEnv() *Config {
	cfg := &Config{
		User:     os.Getenv("db_user"),
		Password: os.Getenv("db_password"),
		Server:   os.Getenv("server"),
		Database: os.Getenv("database"),
	}
	cfg.normalize()
	return cfg
}

// LoadFile reads a yaml configuration file and backfills defaults.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errConfiguration(fmt.Sprintf("cannot read config file %s: %v", path, err))
	}

	// Durations are expressed in milliseconds on disk, so the file schema is
	// declared separately instead of reusing Config's yaml tags.
	var file struct {
		User     string            `yaml:"user"`
		Password string            `yaml:"password"`
		Server   string            `yaml:"server"`
		Port     int               `yaml:"port"`
		Database string            `yaml:"database"`
		Options  ConnectionOptions `yaml:"options"`
		Pool     struct {
			MaxConns         int32 `yaml:"max_conns"`
			MinConns         int32 `yaml:"min_conns"`
			IdleTimeoutMS    int64 `yaml:"idle_timeout_ms"`
			ConnectTimeoutMS int64 `yaml:"connect_timeout_ms"`
		} `yaml:"pool"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errConfiguration(fmt.Sprintf("invalid config file %s: %v", path, err))
	}

	cfg := &Config{
		User:     file.User,
		Password: file.Password,
		Server:   file.Server,
		Port:     file.Port,
		Database: file.Database,
		Options:  file.Options,
	}
	cfg.Pool.MaxConns = file.Pool.MaxConns
	cfg.Pool.MinConns = file.Pool.MinConns
	cfg.Pool.IdleTimeout = time.Duration(file.Pool.IdleTimeoutMS) * time.Millisecond
	cfg.Pool.ConnectTimeout = time.Duration(file.Pool.ConnectTimeoutMS) * time.Millisecond
	cfg.normalize()
	return cfg, nil
}

// normalize backfills every zero-valued field with its documented default.
func (c *Config) normalize() {
	c.Pool.MaxConns = withDefault(c.Pool.MaxConns, defaultMaxConns)
	c.Pool.MinConns = withDefault(c.Pool.MinConns, defaultMinConns)
	if c.Pool.IdleTimeout == 0 {
		c.Pool.IdleTimeout = defaultIdleTimeout
	}
	if c.Pool.ConnectTimeout == 0 {
		c.Pool.ConnectTimeout = defaultConnectTimeout
	}
}

// withDefault returns val if non-zero, otherwise returns def.
func withDefault(val, def int32) int32 {
	if val == 0 {
		return def
	}
	return val
}

// Bool is a convenience for populating the optional ConnectionOptions flags.
func Bool(v bool) *bool { return &v }
