package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/export"
)

func (s *Server) handleExecuteQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ExecuteQueryInput
	if err := decodeArgs(request, &input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var timeout time.Duration
	if input.TimeoutMs != nil {
		if *input.TimeoutMs <= 0 {
			return mcp.NewToolResultError("timeout_ms must be positive"), nil
		}
		timeout = time.Duration(*input.TimeoutMs) * time.Millisecond
	}

	res, err := s.db.QueryWithTimeout(ctx, timeout, input.SQL, input.Params...)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(toQueryPayload(res)), nil
}

func (s *Server) handleQueryTimeseries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input QueryTimeseriesInput
	if err := decodeArgs(request, &input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var timeColumn string
	if input.TimeColumn != nil {
		timeColumn = *input.TimeColumn
	}

	b := database.Timeseries(input.Table, timeColumn)
	if input.Interval != nil {
		b.Bucket(*input.Interval)
	}

	aggregation := "avg"
	if input.Aggregation != nil {
		aggregation = *input.Aggregation
	}
	b.Aggregate(aggregation, input.Columns...)

	for _, f := range input.Filters {
		b.Filter(f.Column, f.Op, f.Value)
	}
	if input.StartTime != nil {
		b.Start(parseTimeBound(*input.StartTime))
	}
	if input.EndTime != nil {
		b.End(parseTimeBound(*input.EndTime))
	}
	if input.Limit != nil {
		b.Limit(*input.Limit)
	}

	res, err := s.db.QueryTimeseries(ctx, b)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(toQueryPayload(res)), nil
}

func (s *Server) handleExportQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.exp == nil {
		return mcp.NewToolResultError("export storage is not configured"), nil
	}

	var input ExportQueryInput
	if err := decodeArgs(request, &input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := export.FormatJSON
	if input.Format != nil {
		f, err := export.ParseFormat(*input.Format)
		if err != nil {
			return toolError(err), nil
		}
		format = f
	}

	res, err := s.db.Query(ctx, input.SQL, input.Params...)
	if err != nil {
		return toolError(err), nil
	}

	out, err := s.exp.Export(ctx, res, format)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(out), nil
}

// parseTimeBound prefers RFC 3339; anything else passes through unchanged
// for the server to interpret as a timestamp.
func parseTimeBound(s string) any {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return s
}
