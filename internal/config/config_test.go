package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.Database)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "prefer", cfg.Database.SSLMode)
	assert.Equal(t, 1, cfg.Database.MinPoolSize)
	assert.Equal(t, 10, cfg.Database.MaxPoolSize)
	assert.Equal(t, Duration(10*time.Second), cfg.Database.ConnectTimeout)
	assert.Equal(t, Duration(30*time.Second), cfg.Database.AcquireTimeout)
	assert.Equal(t, Duration(0), cfg.Database.QueryTimeout, "no statement deadline by default")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Export.Enabled())

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TIMESCALEDB_HOST", "tsdb.internal")
	t.Setenv("TIMESCALEDB_PORT", "6543")
	t.Setenv("TIMESCALEDB_DATABASE", "metrics")
	t.Setenv("TIMESCALEDB_USER", "reader")
	t.Setenv("TIMESCALEDB_PASSWORD", "s3cret")
	t.Setenv("TIMESCALEDB_MIN_POOL_SIZE", "2")
	t.Setenv("TIMESCALEDB_MAX_POOL_SIZE", "20")
	t.Setenv("TIMESCALEDB_QUERY_TIMEOUT", "45s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tsdb.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "metrics", cfg.Database.Database)
	assert.Equal(t, "reader", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 2, cfg.Database.MinPoolSize)
	assert.Equal(t, 20, cfg.Database.MaxPoolSize)
	assert.Equal(t, Duration(45*time.Second), cfg.Database.QueryTimeout)
}

func TestLoadBadEnvValue(t *testing.T) {
	t.Setenv("TIMESCALEDB_PORT", "not-a-number")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMESCALEDB_PORT")
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("TSDB_TEST_PASSWORD", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
database:
  host: db.example.com
  port: 5433
  database: telemetry
  user: svc
  password: ${TSDB_TEST_PASSWORD}
  max_pool_size: 5
  query_timeout: "30s"
log:
  level: debug
  format: console
health:
  addr: ":8089"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "telemetry", cfg.Database.Database)
	assert.Equal(t, "from-env", cfg.Database.Password, "${VAR} should expand")
	assert.Equal(t, 5, cfg.Database.MaxPoolSize)
	assert.Equal(t, 1, cfg.Database.MinPoolSize, "defaults fill unset fields")
	assert.Equal(t, Duration(30*time.Second), cfg.Database.QueryTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8089", cfg.Health.Addr)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: from-file\n"), 0o600))

	t.Setenv("TIMESCALEDB_HOST", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Host)
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  query_timeout: \"fast\"\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "min exceeds max",
			mutate:  func(c *Config) { c.Database.MinPoolSize = 11 },
			wantErr: "cannot exceed max_pool_size",
		},
		{
			name:    "min below one",
			mutate:  func(c *Config) { c.Database.MinPoolSize = -1 },
			wantErr: "min_pool_size must be >= 1",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Database.Port = 70000 },
			wantErr: "port must be between",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "host is required",
		},
		{
			name:    "export without bucket",
			mutate:  func(c *Config) { c.Export.Endpoint = "minio:9000" },
			wantErr: "export.bucket is required",
		},
		{
			name: "export without keys",
			mutate: func(c *Config) {
				c.Export.Endpoint = "minio:9000"
				c.Export.Bucket = "exports"
			},
			wantErr: "access_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{
			name: "plain",
			db: DatabaseConfig{
				Host: "localhost", Port: 5432, Database: "postgres",
				User: "postgres", Password: "pw", SSLMode: "prefer",
			},
			want: "postgres://postgres:pw@localhost:5432/postgres?sslmode=prefer",
		},
		{
			name: "special characters in password",
			db: DatabaseConfig{
				Host: "db", Port: 5432, Database: "app",
				User: "svc", Password: "p@ss/w:rd", SSLMode: "require",
			},
			want: "postgres://svc:p%40ss%2Fw%3Ard@db:5432/app?sslmode=require",
		},
		{
			name: "empty password",
			db: DatabaseConfig{
				Host: "localhost", Port: 5432, Database: "postgres",
				User: "postgres", SSLMode: "disable",
			},
			want: "postgres://postgres:@localhost:5432/postgres?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.db.DSN())
		})
	}
}
