// Package postgres implements database.DB on top of a bounded pgx
// connection pool against TimescaleDB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

// Driver is the PostgreSQL/TimescaleDB implementation of database.DB.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	pool *pgxpool.Pool
	cfg  database.Config
	log  zerolog.Logger
}

var _ database.DB = (*Driver)(nil)

// New connects to TimescaleDB using the provided Config and returns a
// Driver. It pings the server before returning, so an unreachable or
// misconfigured database fails here rather than on the first query.
func New(ctx context.Context, cfg database.Config, log zerolog.Logger) (*Driver, error) {
	cfg = normalize(cfg)

	poolCfg, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, mapError(err, "failed to create connection pool")
	}

	d := &Driver{
		pool: pool,
		cfg:  cfg,
		log:  log.With().Str("component", "postgres").Logger(),
	}

	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	d.log.Info().
		Int32("min_conns", cfg.MinConns).
		Int32("max_conns", cfg.MaxConns).
		Dur("query_timeout", cfg.QueryTimeout).
		Msg("connection pool ready")

	return d, nil
}

// Ping verifies the database is reachable by acquiring and releasing a
// connection.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close drains the connection pool. Safe to call more than once.
func (d *Driver) Close() {
	d.pool.Close()
}

// Stat reports a snapshot of the pool state.
func (d *Driver) Stat() database.PoolStat {
	s := d.pool.Stat()
	return database.PoolStat{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
	}
}

// acquire waits for a pooled connection, bounded by AcquireTimeout.
// Hitting that bound while the caller's own context is still live means
// every connection stayed busy for the whole wait: pool exhaustion.
func (d *Driver) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx := ctx
	if d.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, d.cfg.AcquireTimeout)
		defer cancel()
	}

	conn, err := d.pool.Acquire(actx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errs.Wrap(errs.ErrKindPoolExhausted,
				fmt.Sprintf("no free connection within %s (%d/%d in use)",
					d.cfg.AcquireTimeout, d.Stat().AcquiredConns, d.cfg.MaxConns),
				err)
		}
		return nil, mapError(err, "failed to acquire connection")
	}
	return conn, nil
}

// run acquires a connection, applies the statement deadline (per-call
// timeout, else the configured default), and invokes fn. When fn reports a
// timeout the connection is discarded instead of released for reuse: its
// session may still be tearing down the cancelled statement. The pool opens
// a replacement lazily.
func (d *Driver) run(ctx context.Context, timeout time.Duration, fn func(qctx context.Context, conn *pgxpool.Conn) error) error {
	conn, err := d.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if timeout <= 0 {
		timeout = d.cfg.QueryTimeout
	}
	qctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := fn(qctx, conn); err != nil {
		if errs.IsTimeout(err) {
			d.discard(conn)
		}
		return err
	}
	return nil
}

// discard closes the underlying connection before release so the pool
// destroys it rather than reusing it.
func (d *Driver) discard(conn *pgxpool.Conn) {
	if conn.Conn().IsClosed() {
		return
	}
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = conn.Conn().Close(closeCtx)
	d.log.Warn().Msg("discarded connection after cancelled statement")
}
