package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"
)

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then TIMESCALEDB_* environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand ${VAR} environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadAndValidate loads the configuration and validates it.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	db := &c.Database
	envStr(&db.Host, "TIMESCALEDB_HOST")
	envStr(&db.Database, "TIMESCALEDB_DATABASE")
	envStr(&db.User, "TIMESCALEDB_USER")
	envStr(&db.Password, "TIMESCALEDB_PASSWORD")
	envStr(&db.SSLMode, "TIMESCALEDB_SSL_MODE")

	if err := envInt(&db.Port, "TIMESCALEDB_PORT"); err != nil {
		return err
	}
	if err := envInt(&db.MinPoolSize, "TIMESCALEDB_MIN_POOL_SIZE"); err != nil {
		return err
	}
	if err := envInt(&db.MaxPoolSize, "TIMESCALEDB_MAX_POOL_SIZE"); err != nil {
		return err
	}
	if err := envDuration(&db.ConnectTimeout, "TIMESCALEDB_CONNECT_TIMEOUT"); err != nil {
		return err
	}
	if err := envDuration(&db.AcquireTimeout, "TIMESCALEDB_ACQUIRE_TIMEOUT"); err != nil {
		return err
	}
	if err := envDuration(&db.QueryTimeout, "TIMESCALEDB_QUERY_TIMEOUT"); err != nil {
		return err
	}

	envStr(&c.Log.Level, "TIMESCALEDB_LOG_LEVEL")
	envStr(&c.Log.Format, "TIMESCALEDB_LOG_FORMAT")
	envStr(&c.Health.Addr, "TIMESCALEDB_HEALTH_ADDR")

	exp := &c.Export
	envStr(&exp.Endpoint, "TIMESCALEDB_EXPORT_ENDPOINT")
	envStr(&exp.AccessKey, "TIMESCALEDB_EXPORT_ACCESS_KEY")
	envStr(&exp.SecretKey, "TIMESCALEDB_EXPORT_SECRET_KEY")
	envStr(&exp.Bucket, "TIMESCALEDB_EXPORT_BUCKET")
	if err := envBool(&exp.UseSSL, "TIMESCALEDB_EXPORT_USE_SSL"); err != nil {
		return err
	}
	if err := envDuration(&exp.URLTTL, "TIMESCALEDB_EXPORT_URL_TTL"); err != nil {
		return err
	}

	return nil
}

func envStr(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(dst *Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}
