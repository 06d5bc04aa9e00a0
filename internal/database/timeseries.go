package database

import (
	"fmt"
	"strings"
)

// TimeseriesBuilder constructs a parameterized time_bucket aggregation query
// using a fluent API. Values (the bucket interval, filter values, time
// bounds and the row limit) are never interpolated into the SQL string;
// identifiers pass the allowlist validation before being quoted in.
//
// Usage:
//
//	sql, args, err := Timeseries("metrics", "ts").
//	    Bucket("5 minutes").
//	    Aggregate("avg", "cpu", "mem").
//	    Filter("device_id", "=", "dev-1").
//	    Start("2026-01-01T00:00:00Z").
//	    Limit(500).
//	    Build()
//
// Buckets are fixed-width and aligned to the epoch origin, so the same
// interval always yields the same bucket boundaries regardless of the
// queried range.
type TimeseriesBuilder struct {
	table      string
	timeColumn string
	interval   string
	aggregate  string
	columns    []string
	filters    []filterClause
	start      any
	end        any
	limit      *int
}

type filterClause struct {
	column string
	op     string
	value  any
}

// Timeseries starts a builder for the given hypertable and time column.
// An empty timeColumn defaults to "time".
func Timeseries(table, timeColumn string) *TimeseriesBuilder {
	if timeColumn == "" {
		timeColumn = "time"
	}
	return &TimeseriesBuilder{
		table:      table,
		timeColumn: timeColumn,
		interval:   "1 hour",
		aggregate:  "avg",
	}
}

// Bucket sets the time_bucket interval ("30 seconds", "5 minutes", "1 day").
func (b *TimeseriesBuilder) Bucket(interval string) *TimeseriesBuilder {
	b.interval = interval
	return b
}

// Aggregate sets the aggregation function and the columns it applies to.
// count works without columns (count(*)); avg, sum, min and max need at
// least one.
func (b *TimeseriesBuilder) Aggregate(fn string, columns ...string) *TimeseriesBuilder {
	b.aggregate = fn
	b.columns = columns
	return b
}

// Filter adds a WHERE condition on a column. op must be one of the allowed
// comparison operators (=, !=, <, <=, >, >=); the value is always bound as
// a query parameter. Multiple calls are combined with AND.
func (b *TimeseriesBuilder) Filter(column, op string, value any) *TimeseriesBuilder {
	b.filters = append(b.filters, filterClause{column, op, value})
	return b
}

// Start bounds the time column from below (inclusive).
func (b *TimeseriesBuilder) Start(t any) *TimeseriesBuilder {
	b.start = t
	return b
}

// End bounds the time column from above (inclusive).
func (b *TimeseriesBuilder) End(t any) *TimeseriesBuilder {
	b.end = t
	return b
}

// Limit caps the number of buckets returned. Unset defaults to
// DefaultQueryLimit; values beyond MaxQueryLimit are rejected by Build.
func (b *TimeseriesBuilder) Limit(n int) *TimeseriesBuilder {
	b.limit = &n
	return b
}

// Table returns the hypertable the builder targets.
func (b *TimeseriesBuilder) Table() string {
	return b.table
}

// Build validates every identifier, operator and bound, then produces the
// final SQL string and argument slice. The query is not executed.
func (b *TimeseriesBuilder) Build() (string, []any, error) {
	if err := ValidateIdentifier("table name", b.table); err != nil {
		return "", nil, err
	}
	if err := ValidateIdentifier("time column", b.timeColumn); err != nil {
		return "", nil, err
	}
	if err := ValidateInterval(b.interval); err != nil {
		return "", nil, err
	}
	if err := ValidateAggregation(b.aggregate); err != nil {
		return "", nil, err
	}
	for _, c := range b.columns {
		if err := ValidateIdentifier("column name", c); err != nil {
			return "", nil, err
		}
	}
	if b.aggregate != "count" && len(b.columns) == 0 {
		return "", nil, errInvalidInput(fmt.Sprintf(
			"aggregation %q requires at least one column", b.aggregate))
	}

	limit := DefaultQueryLimit
	if b.limit != nil {
		limit = *b.limit
	}
	if err := ValidateLimit(limit); err != nil {
		return "", nil, err
	}

	var args []any
	argIdx := 1
	next := func(v any) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", argIdx)
		argIdx++
		return p
	}

	var sb strings.Builder
	sb.WriteString("SELECT time_bucket(")
	sb.WriteString(next(b.interval))
	sb.WriteString("::interval, ")
	sb.WriteString(quoteIdent(b.timeColumn))
	sb.WriteString(") AS bucket")

	if len(b.columns) == 0 {
		// count without columns counts rows per bucket
		sb.WriteString(`, count(*) AS "count"`)
	} else {
		for _, c := range b.columns {
			alias := b.aggregate + "_" + c
			fmt.Fprintf(&sb, ", %s(%s) AS %s", b.aggregate, quoteIdent(c), quoteIdent(alias))
		}
	}

	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(b.table))

	var where []string
	for _, f := range b.filters {
		if err := ValidateIdentifier("filter column", f.column); err != nil {
			return "", nil, err
		}
		if err := ValidateOperator(f.op); err != nil {
			return "", nil, err
		}
		where = append(where, fmt.Sprintf("%s %s %s", quoteIdent(f.column), f.op, next(f.value)))
	}
	if b.start != nil {
		where = append(where, fmt.Sprintf("%s >= %s::timestamptz", quoteIdent(b.timeColumn), next(b.start)))
	}
	if b.end != nil {
		where = append(where, fmt.Sprintf("%s <= %s::timestamptz", quoteIdent(b.timeColumn), next(b.end)))
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	sb.WriteString(" GROUP BY bucket ORDER BY bucket ASC LIMIT ")
	sb.WriteString(next(limit))

	return sb.String(), args, nil
}
