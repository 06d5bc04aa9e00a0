// Package config loads and validates the server configuration.
//
// Values are resolved in three layers: built-in defaults, then an optional
// YAML file (with ${VAR} expansion), then TIMESCALEDB_* environment
// variables. Environment always wins, so containerised deployments can run
// without a config file at all.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 5432
	DefaultDatabase       = "postgres"
	DefaultUser           = "postgres"
	DefaultSSLMode        = "prefer"
	DefaultMinPoolSize    = 1
	DefaultMaxPoolSize    = 10
	DefaultConnectTimeout = 10 * time.Second
	DefaultAcquireTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultExportURLTTL   = time.Hour
)

// Config is the full server configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Health   HealthConfig   `yaml:"health"`
	Export   ExportConfig   `yaml:"export"`
}

// DatabaseConfig holds the TimescaleDB connection and pool settings.
type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	SSLMode     string `yaml:"ssl_mode"`
	MinPoolSize int    `yaml:"min_pool_size"`
	MaxPoolSize int    `yaml:"max_pool_size"`

	ConnectTimeout Duration `yaml:"connect_timeout"`
	AcquireTimeout Duration `yaml:"acquire_timeout"`
	// QueryTimeout bounds every statement unless a call overrides it.
	// Zero means no default deadline.
	QueryTimeout Duration `yaml:"query_timeout"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// HealthConfig enables the HTTP probe listener when Addr is set.
type HealthConfig struct {
	Addr string `yaml:"addr"` // e.g. ":8089"; empty disables the listener
}

// ExportConfig enables the S3-compatible result export store when Endpoint
// is set.
type ExportConfig struct {
	Endpoint  string   `yaml:"endpoint"` // e.g. "minio:9000"; empty disables exports
	AccessKey string   `yaml:"access_key"`
	SecretKey string   `yaml:"secret_key"`
	Bucket    string   `yaml:"bucket"`
	UseSSL    bool     `yaml:"use_ssl"`
	URLTTL    Duration `yaml:"url_ttl"` // presigned download link lifetime
}

// Enabled reports whether an export store is configured.
func (e ExportConfig) Enabled() bool {
	return e.Endpoint != ""
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(d.Password)

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		escapedPassword,
		d.Host,
		d.Port,
		d.Database,
		d.SSLMode,
	)
}

func (c *Config) applyDefaults() {
	db := &c.Database
	if db.Host == "" {
		db.Host = DefaultHost
	}
	if db.Port == 0 {
		db.Port = DefaultPort
	}
	if db.Database == "" {
		db.Database = DefaultDatabase
	}
	if db.User == "" {
		db.User = DefaultUser
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultSSLMode
	}
	if db.MinPoolSize == 0 {
		db.MinPoolSize = DefaultMinPoolSize
	}
	if db.MaxPoolSize == 0 {
		db.MaxPoolSize = DefaultMaxPoolSize
	}
	if db.ConnectTimeout == 0 {
		db.ConnectTimeout = Duration(DefaultConnectTimeout)
	}
	if db.AcquireTimeout == 0 {
		db.AcquireTimeout = Duration(DefaultAcquireTimeout)
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Export.URLTTL == 0 {
		c.Export.URLTTL = Duration(DefaultExportURLTTL)
	}
}
