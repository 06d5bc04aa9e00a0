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

// ListHypertables returns the TimescaleDB hypertables, name-ordered.
func (d *Driver) ListHypertables(ctx context.Context) ([]database.HypertableSummary, error) {
	var tables []database.HypertableSummary

	err := d.run(ctx, 0, func(qctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(qctx, queryListHypertables)
		if err != nil {
			return mapError(err, "failed to list hypertables")
		}
		defer rows.Close()

		for rows.Next() {
			var h database.HypertableSummary
			if err := rows.Scan(&h.Schema, &h.Name, &h.NumDimensions, &h.CompressionEnabled); err != nil {
				return mapError(err, "failed to scan hypertable row")
			}
			tables = append(tables, h)
		}
		return mapError(rows.Err(), "error iterating hypertables")
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// DescribeHypertable returns the dimensions, chunk statistics, compression
// state and most recent chunks of one hypertable. A name that is a plain
// table reports the same not-found error as a name that does not exist at
// all; callers that need to tell the cases apart cross-check DescribeTable.
func (d *Driver) DescribeHypertable(ctx context.Context, table string) (*database.HypertableDescriptor, error) {
	if err := database.ValidateIdentifier("hypertable name", table); err != nil {
		return nil, err
	}

	var desc database.HypertableDescriptor

	err := d.run(ctx, 0, func(qctx context.Context, conn *pgxpool.Conn) error {
		row := conn.QueryRow(qctx, queryHypertable, table)
		if err := row.Scan(&desc.Schema, &desc.Name, &desc.CompressionEnabled); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.New(errs.ErrKindNotFound, fmt.Sprintf("hypertable %q not found", table))
			}
			return mapError(err, "failed to describe hypertable")
		}

		dims, err := fetchDimensions(qctx, conn, table)
		if err != nil {
			return err
		}
		desc.Dimensions = dims

		stats := conn.QueryRow(qctx, queryHypertableChunkStats, table)
		if err := stats.Scan(&desc.ChunkCount, &desc.CompressedChunks); err != nil {
			return mapError(err, "failed to read chunk statistics")
		}

		chunks, err := fetchRecentChunks(qctx, conn, table)
		if err != nil {
			return err
		}
		desc.RecentChunks = chunks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

func fetchDimensions(ctx context.Context, conn *pgxpool.Conn, table string) ([]database.DimensionDescriptor, error) {
	rows, err := conn.Query(ctx, queryHypertableDimensions, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch dimensions")
	}
	defer rows.Close()

	var dims []database.DimensionDescriptor
	for rows.Next() {
		var dim database.DimensionDescriptor
		err := rows.Scan(
			&dim.Column,
			&dim.ColumnType,
			&dim.Type,
			&dim.TimeInterval,
			&dim.IntegerInterval,
			&dim.NumPartitions,
		)
		if err != nil {
			return nil, mapError(err, "failed to scan dimension")
		}
		dims = append(dims, dim)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating dimensions")
	}
	return dims, nil
}

func fetchRecentChunks(ctx context.Context, conn *pgxpool.Conn, table string) ([]database.ChunkInfo, error) {
	rows, err := conn.Query(ctx, queryHypertableRecentChunks, table, recentChunkLimit)
	if err != nil {
		return nil, mapError(err, "failed to fetch chunks")
	}
	defer rows.Close()

	var chunks []database.ChunkInfo
	for rows.Next() {
		var c database.ChunkInfo
		if err := rows.Scan(&c.Schema, &c.Name, &c.RangeStart, &c.RangeEnd, &c.Compressed); err != nil {
			return nil, mapError(err, "failed to scan chunk")
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating chunks")
	}
	return chunks, nil
}
