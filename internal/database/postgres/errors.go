package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/timescale-mcp/internal/errs"
)

// PostgreSQL SQLSTATE classes and codes this driver cares about.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	sqlstateClassConnection = "08" // connection exceptions
	sqlstateClassAuth       = "28" // invalid authorization (bad password, no role)
	sqlstateClassCatalog    = "3D" // invalid catalog name (unknown database)
	sqlstateClassShutdown   = "57P" // server shutdown / crash
	sqlstateQueryCanceled   = "57014"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
// Already-translated errors pass through unchanged, so call sites can wrap
// freely without double-tagging.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var already *errs.Error
	if errors.As(err, &already) {
		return err
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	// Postgres server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := errs.ErrKindQueryFailed
		switch {
		case pgErr.Code == sqlstateQueryCanceled:
			kind = errs.ErrKindTimeout
		case strings.HasPrefix(pgErr.Code, sqlstateClassConnection),
			strings.HasPrefix(pgErr.Code, sqlstateClassAuth),
			strings.HasPrefix(pgErr.Code, sqlstateClassCatalog),
			strings.HasPrefix(pgErr.Code, sqlstateClassShutdown):
			kind = errs.ErrKindConnectionFailed
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, sanitize(pgErr.Message)), err)
	}

	// Fallthrough: network, TLS and connection string parse failures
	return errs.Wrap(errs.ErrKindConnectionFailed, fmt.Sprintf("%s: %s", msg, sanitize(err.Error())), err)
}

var (
	reConnString = regexp.MustCompile(`(?i)postgres(?:ql)?://\S+`)
	reCredential = regexp.MustCompile(`(?i)\b(password|passfile|sslkey|sslcert|sslrootcert)=[^\s"']+`)
	rePath       = regexp.MustCompile(`(?:/[\w.-]+){2,}`)
)

// sanitize strips connection strings, credentials and file paths out of a
// driver message before it can travel past this package.
func sanitize(msg string) string {
	msg = reConnString.ReplaceAllString(msg, "postgres://[redacted]")
	msg = reCredential.ReplaceAllString(msg, "$1=[redacted]")
	msg = rePath.ReplaceAllString(msg, "[path]")
	return msg
}
