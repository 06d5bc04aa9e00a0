package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPrompts registers guided workflows for common TimescaleDB tasks.
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(
		mcp.NewPrompt("explore_database_schema",
			mcp.WithPromptDescription("Walk the database schema and summarize what is stored where."),
		),
		s.handleExploreSchemaPrompt,
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("analyze_hypertable",
			mcp.WithPromptDescription("Inspect one hypertable's partitioning, chunk layout and compression."),
			mcp.WithArgument("table",
				mcp.ArgumentDescription("Name of the hypertable to analyze"),
				mcp.RequiredArgument(),
			),
		),
		s.handleAnalyzeHypertablePrompt,
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("query_timeseries_data",
			mcp.WithPromptDescription("Build a bucketed aggregation query over a hypertable step by step."),
			mcp.WithArgument("table",
				mcp.ArgumentDescription("Name of the hypertable to query"),
				mcp.RequiredArgument(),
			),
			mcp.WithArgument("metric",
				mcp.ArgumentDescription("Value column to aggregate"),
			),
		),
		s.handleQueryTimeseriesPrompt,
	)
}

func (s *Server) handleExploreSchemaPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := `Explore this TimescaleDB database step by step:

1. Call list_tables to see every user table, then list_hypertables to see
   which of them are hypertables.
2. For each table of interest, call describe_table to get its columns and
   approximate row count.
3. For each hypertable, call describe_hypertable to see its partitioning
   dimensions, chunk count and compression state.
4. Summarize the findings: what data lives where, how it is partitioned,
   and which tables hold the most rows.`

	return mcp.NewGetPromptResult(
		"Explore the database schema",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (s *Server) handleAnalyzeHypertablePrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	table := request.Params.Arguments["table"]
	if table == "" {
		return nil, fmt.Errorf("missing required argument: table")
	}

	text := fmt.Sprintf(`Analyze the hypertable %q:

1. Call describe_hypertable with table=%q to get its dimensions, chunk
   statistics and compression state.
2. Call describe_table with table=%q for the column layout and row count.
3. Look at the recent chunks: are their time ranges evenly sized? Is
   compression enabled, and how many chunks are compressed?
4. Report on the table's health: chunk interval fit, compression coverage,
   and anything unusual in the layout.`, table, table, table)

	return mcp.NewGetPromptResult(
		fmt.Sprintf("Analyze hypertable %s", table),
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (s *Server) handleQueryTimeseriesPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	table := request.Params.Arguments["table"]
	if table == "" {
		return nil, fmt.Errorf("missing required argument: table")
	}

	metric := request.Params.Arguments["metric"]
	metricLine := "Pick a numeric value column from the describe_table output."
	if metric != "" {
		metricLine = fmt.Sprintf("Aggregate the %q column.", metric)
	}

	text := fmt.Sprintf(`Query timeseries data from the hypertable %q:

1. Call describe_hypertable with table=%q to find the time dimension and
   its chunk interval.
2. %s
3. Call query_timeseries with a bucket interval close to the chunk
   interval divided by 10. Narrow the range with start_time and end_time
   before widening it.
4. Present the buckets in a table and note any gaps or outliers.`, table, table, metricLine)

	return mcp.NewGetPromptResult(
		fmt.Sprintf("Query timeseries data from %s", table),
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
