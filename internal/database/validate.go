package database

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/koustreak/timescale-mcp/internal/errs"
)

// identRe matches unquoted PostgreSQL identifiers: a letter or underscore
// followed by letters, digits or underscores, at most 63 bytes total
// (NAMEDATALEN - 1).
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// intervalRe matches bucket intervals: a positive integer, one space, and an
// allow-listed unit, optionally pluralised ("5 minutes", "1 hour").
var intervalRe = regexp.MustCompile(`^[1-9][0-9]{0,8} (second|minute|hour|day|week)s?$`)

// validAggregates is the allowlist of aggregation functions the timeseries
// builder will emit.
var validAggregates = map[string]bool{
	"avg":   true,
	"sum":   true,
	"min":   true,
	"max":   true,
	"count": true,
}

// validOps is the allowlist of comparison operators for filter clauses.
// The operator position cannot be parameterized, so anything not in this
// list is rejected to keep caller input out of the SQL text.
var validOps = map[string]bool{
	"=":  true,
	"!=": true,
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
}

// Query limit bounds for the timeseries builder.
const (
	DefaultQueryLimit = 1000
	MaxQueryLimit     = 10000
)

// ValidateIdentifier checks that name is usable as the given kind of SQL
// identifier ("table name", "column name", …) before it is ever quoted into
// a statement.
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return errInvalidInput(fmt.Sprintf("%s cannot be empty", kind))
	}
	if !identRe.MatchString(name) {
		return errInvalidInput(fmt.Sprintf("invalid %s: %q", kind, name))
	}
	return nil
}

// ValidateInterval checks a time_bucket interval against the unit allowlist.
func ValidateInterval(interval string) error {
	if !intervalRe.MatchString(interval) {
		return errInvalidInput(fmt.Sprintf(
			"invalid bucket interval: %q (expected e.g. \"5 minutes\", \"1 hour\")", interval))
	}
	return nil
}

// ValidateAggregation checks an aggregation function name against the
// allowlist.
func ValidateAggregation(fn string) error {
	if !validAggregates[fn] {
		return errInvalidInput(fmt.Sprintf(
			"invalid aggregation: %q (allowed: avg, sum, min, max, count)", fn))
	}
	return nil
}

// ValidateOperator checks a filter comparison operator against the allowlist.
func ValidateOperator(op string) error {
	if !validOps[op] {
		return errInvalidInput(fmt.Sprintf("unsupported filter operator: %q", op))
	}
	return nil
}

// ValidateLimit checks a row limit against the builder bounds.
func ValidateLimit(n int) error {
	if n < 1 || n > MaxQueryLimit {
		return errInvalidInput(fmt.Sprintf(
			"limit must be between 1 and %d, got %d", MaxQueryLimit, n))
	}
	return nil
}

// quoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
// This safely handles reserved words and mixed-case names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// errInvalidInput builds the validation error all checks in this package
// report.
func errInvalidInput(msg string) error {
	return errs.New(errs.ErrKindInvalidInput, msg)
}
