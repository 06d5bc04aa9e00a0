package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

// ListTables returns the user tables in the public schema, name-ordered.
func (d *Driver) ListTables(ctx context.Context) ([]database.TableSummary, error) {
	var tables []database.TableSummary

	err := d.run(ctx, 0, func(qctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(qctx, queryListTables, defaultSchema)
		if err != nil {
			return mapError(err, "failed to list tables")
		}
		defer rows.Close()

		for rows.Next() {
			var t database.TableSummary
			if err := rows.Scan(&t.Schema, &t.Name); err != nil {
				return mapError(err, "failed to scan table row")
			}
			tables = append(tables, t)
		}
		return mapError(rows.Err(), "error iterating tables")
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// DescribeTable returns the column layout of one table, in ordinal order,
// plus the planner's approximate row count. A table without a single
// catalog column does not exist.
func (d *Driver) DescribeTable(ctx context.Context, table string) (*database.TableDescriptor, error) {
	if err := database.ValidateIdentifier("table name", table); err != nil {
		return nil, err
	}

	desc := &database.TableDescriptor{Schema: defaultSchema, Name: table}

	err := d.run(ctx, 0, func(qctx context.Context, conn *pgxpool.Conn) error {
		cols, err := fetchColumns(qctx, conn, table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return errs.New(errs.ErrKindNotFound, fmt.Sprintf("table %q not found", table))
		}
		desc.Columns = cols

		// The row estimate is best-effort: when planner statistics are
		// missing the describe still succeeds with a null count.
		var est int64
		estErr := conn.QueryRow(qctx, queryTableRowEstimate, defaultSchema, table).Scan(&est)
		switch {
		case estErr == nil:
			if est >= 0 {
				desc.RowEstimate = &est
			}
		case errors.Is(estErr, pgx.ErrNoRows):
			// leave nil
		case qctx.Err() != nil:
			return mapError(estErr, "failed to read row estimate")
		default:
			d.log.Warn().Err(estErr).Str("table", table).Msg("row estimate unavailable")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return desc, nil
}

func fetchColumns(ctx context.Context, conn *pgxpool.Conn, table string) ([]database.ColumnDescriptor, error) {
	rows, err := conn.Query(ctx, queryTableColumns, defaultSchema, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	var cols []database.ColumnDescriptor
	for rows.Next() {
		var c database.ColumnDescriptor
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.Default, &c.MaxLength); err != nil {
			return nil, mapError(err, "failed to scan column info")
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating columns")
	}
	return cols, nil
}
