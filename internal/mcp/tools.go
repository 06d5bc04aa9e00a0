package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

// registerTools registers every tool with the MCP server. export_query is
// offered only when an export sink is configured.
func (s *Server) registerTools() {
	s.registerTool("execute_query",
		"Execute a single parameterized SQL statement and return the full result set as JSON. Multiple statements in one call are rejected.",
		ExecuteQueryInput{}, s.handleExecuteQuery)

	s.registerTool("list_tables",
		"List the user tables in the public schema in name order.",
		ListTablesInput{}, s.handleListTables)

	s.registerTool("describe_table",
		"Describe one table: its columns in ordinal order and an approximate row count.",
		DescribeTableInput{}, s.handleDescribeTable)

	s.registerTool("list_hypertables",
		"List the TimescaleDB hypertables with their dimension counts and compression state.",
		ListHypertablesInput{}, s.handleListHypertables)

	s.registerTool("describe_hypertable",
		"Describe one hypertable: partitioning dimensions, chunk statistics, compression state and the most recent chunks.",
		DescribeHypertableInput{}, s.handleDescribeHypertable)

	s.registerTool("query_timeseries",
		"Run a time_bucket aggregation over a hypertable. Buckets are epoch-aligned and returned in ascending time order.",
		QueryTimeseriesInput{}, s.handleQueryTimeseries)

	if s.exp != nil {
		s.registerTool("export_query",
			"Execute a single SQL statement and store the result set as a JSON or CSV object. Returns a time-limited download URL.",
			ExportQueryInput{}, s.handleExportQuery)
	}
}

// registerTool generates the input schema, creates the tool and registers
// the instrumented handler.
func (s *Server) registerTool(name, description string, input any, handler server.ToolHandlerFunc) {
	inputSchema, err := generateInputSchema(input)
	if err != nil {
		s.log.Error().Err(err).Str("tool", name).Msg("failed to generate input schema")
		return
	}

	schemaBytes, err := json.Marshal(inputSchema)
	if err != nil {
		s.log.Error().Err(err).Str("tool", name).Msg("failed to marshal input schema")
		return
	}

	s.mcp.AddTool(mcp.NewToolWithRawSchema(name, description, schemaBytes), s.instrument(name, handler))
}

// generateInputSchema generates a JSON schema from a Go type.
func generateInputSchema(input any) (map[string]any, error) {
	// Inline all definitions instead of using $ref/$defs so MCP clients get
	// a self-contained schema.
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(input)

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	// Strip the JSON Schema draft fields MCP clients don't expect.
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")

	return schemaMap, nil
}

// instrument tags every invocation with a request id and logs its outcome.
func (s *Server) instrument(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := s.log.With().
			Str("tool", name).
			Str("request_id", uuid.NewString()).
			Logger()

		start := time.Now()
		res, err := handler(ctx, request)
		took := time.Since(start)

		switch {
		case err != nil:
			log.Error().Err(err).Dur("took", took).Msg("tool call failed")
		case res != nil && res.IsError:
			log.Warn().Dur("took", took).Msg("tool call rejected")
		default:
			log.Debug().Dur("took", took).Msg("tool call completed")
		}

		return res, err
	}
}

// decodeArgs unmarshals the request arguments into a typed input struct.
func decodeArgs(request mcp.CallToolRequest, out any) error {
	if request.Params.Arguments == nil {
		return nil
	}

	raw, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

// toolError renders a translated error for the client. Only the sanitized
// kind and message travel; the cause chain stays in the server log.
func toolError(err error) *mcp.CallToolResult {
	var e *errs.Error
	if errors.As(err, &e) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	}
	return mcp.NewToolResultError(err.Error())
}

// jsonResult renders v as an indented JSON text block.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// queryPayload is the wire form of a query result. Duration is surfaced in
// milliseconds rather than Go's duration encoding.
type queryPayload struct {
	Columns    []database.ColumnMeta `json:"columns"`
	Rows       []map[string]any      `json:"rows"`
	RowCount   int                   `json:"row_count"`
	DurationMs float64               `json:"duration_ms"`
}

func toQueryPayload(res *database.QueryResult) queryPayload {
	return queryPayload{
		Columns:    res.Columns,
		Rows:       res.Rows,
		RowCount:   res.RowCount,
		DurationMs: float64(res.Duration.Microseconds()) / 1000.0,
	}
}
