package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleListTables(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tables, err := s.db.ListTables(ctx)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(map[string]any{
		"tables": tables,
		"count":  len(tables),
	}), nil
}

func (s *Server) handleDescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DescribeTableInput
	if err := decodeArgs(request, &input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	desc, err := s.db.DescribeTable(ctx, input.Table)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(desc), nil
}

func (s *Server) handleListHypertables(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hypertables, err := s.db.ListHypertables(ctx)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(map[string]any{
		"hypertables": hypertables,
		"count":       len(hypertables),
	}), nil
}

func (s *Server) handleDescribeHypertable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DescribeHypertableInput
	if err := decodeArgs(request, &input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	desc, err := s.db.DescribeHypertable(ctx, input.Table)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(desc), nil
}
