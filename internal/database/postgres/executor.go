package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/timescale-mcp/internal/database"
)

// Query executes a single parameterized statement with the configured
// default deadline and collects the full result set.
func (d *Driver) Query(ctx context.Context, sql string, args ...any) (*database.QueryResult, error) {
	return d.QueryWithTimeout(ctx, 0, sql, args...)
}

// QueryWithTimeout is Query with a per-call statement deadline. A zero
// timeout falls back to the configured default. Multi-statement input is
// rejected before any network interaction.
func (d *Driver) QueryWithTimeout(ctx context.Context, timeout time.Duration, sql string, args ...any) (*database.QueryResult, error) {
	if err := database.ValidateSingleStatement(sql); err != nil {
		return nil, err
	}

	var res *database.QueryResult
	start := time.Now()

	err := d.run(ctx, timeout, func(qctx context.Context, conn *pgxpool.Conn) error {
		r, err := collectResult(qctx, conn, sql, args)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	d.log.Debug().
		Dur("took", res.Duration).
		Int("rows", res.RowCount).
		Msg("query executed")
	return res, nil
}

// QueryTimeseries builds the bucketed aggregation query and executes it.
func (d *Driver) QueryTimeseries(ctx context.Context, b *database.TimeseriesBuilder) (*database.QueryResult, error) {
	sql, args, err := b.Build()
	if err != nil {
		return nil, err
	}

	res, err := d.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	d.log.Debug().
		Str("table", b.Table()).
		Int("buckets", res.RowCount).
		Msg("timeseries query executed")
	return res, nil
}

// collectResult runs one statement and materializes the rows with their
// column metadata. Statements that return no rows (INSERT, UPDATE, DDL)
// yield an empty result.
func collectResult(ctx context.Context, conn *pgxpool.Conn, sql string, args []any) (*database.QueryResult, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	defer rows.Close()

	typeMap := conn.Conn().TypeMap()
	descs := rows.FieldDescriptions()
	cols := make([]database.ColumnMeta, len(descs))
	for i, fd := range descs {
		typeName := "unknown"
		if dt, ok := typeMap.TypeForOID(fd.DataTypeOID); ok {
			typeName = dt.Name
		}
		cols[i] = database.ColumnMeta{Name: fd.Name, TypeName: typeName}
	}

	result := &database.QueryResult{Columns: cols}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, mapError(err, "failed to read row")
		}
		row := make(map[string]any, len(vals))
		for i, v := range vals {
			row[cols[i].Name] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "query failed")
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// normalizeValue converts pgx-native values that marshal poorly into
// JSON-friendly ones. Everything else passes through untouched.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case [16]byte:
		// uuid columns scan to raw bytes; render them canonically
		return uuid.UUID(t).String()
	default:
		return v
	}
}
