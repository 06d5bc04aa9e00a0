package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/timescale-mcp/internal/database"
)

const (
	defaultMaxConns       = 10
	defaultMinConns       = 1
	defaultConnectTimeout = 10 * time.Second
	defaultAcquireTimeout = 30 * time.Second
)

// normalize fills zero-valued pool settings so a partially filled Config
// still yields a working pool.
func normalize(cfg database.Config) database.Config {
	cfg.MaxConns = withDefault(cfg.MaxConns, defaultMaxConns)
	cfg.MinConns = withDefault(cfg.MinConns, defaultMinConns)
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.AcquireTimeout == 0 {
		cfg.AcquireTimeout = defaultAcquireTimeout
	}
	return cfg
}

// buildPoolConfig translates database.Config into pgxpool configuration.
// The pool keeps MinConns connections open in the background and never
// grows past MaxConns; callers beyond that wait in acquire.
func buildPoolConfig(cfg database.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, mapError(err, "invalid connection string")
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return poolCfg, nil
}

// withDefault returns val if non-zero, otherwise def.
func withDefault(val, def int32) int32 {
	if val == 0 {
		return def
	}
	return val
}
