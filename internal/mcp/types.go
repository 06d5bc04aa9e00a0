package mcp

// Input types for the MCP tools. The json and jsonschema tags double as the
// input schema the client sees: descriptions, enums and defaults are all
// derived from them. Optional fields are pointers so "absent" and "zero"
// stay distinguishable.

// ExecuteQueryInput is the input of the execute_query tool.
type ExecuteQueryInput struct {
	SQL       string `json:"sql" jsonschema:"description=Single SQL statement to execute; multiple statements in one call are rejected"`
	Params    []any  `json:"params,omitempty" jsonschema:"description=Positional parameters bound to $1..$n"`
	TimeoutMs *int   `json:"timeout_ms,omitempty" jsonschema:"description=Statement timeout in milliseconds overriding the configured default"`
}

// ListTablesInput is the (empty) input of the list_tables tool.
type ListTablesInput struct{}

// DescribeTableInput is the input of the describe_table tool.
type DescribeTableInput struct {
	Table string `json:"table" jsonschema:"description=Table name in the public schema"`
}

// ListHypertablesInput is the (empty) input of the list_hypertables tool.
type ListHypertablesInput struct{}

// DescribeHypertableInput is the input of the describe_hypertable tool.
type DescribeHypertableInput struct {
	Table string `json:"table" jsonschema:"description=Hypertable name in the public schema"`
}

// TimeseriesFilter is one WHERE-clause condition of a timeseries query.
type TimeseriesFilter struct {
	Column string `json:"column" jsonschema:"description=Column to filter on"`
	Op     string `json:"op" jsonschema:"description=Comparison operator,enum==,enum=!=,enum=<,enum=<=,enum=>,enum=>="`
	Value  any    `json:"value" jsonschema:"description=Comparison value; always bound as a query parameter"`
}

// QueryTimeseriesInput is the input of the query_timeseries tool.
type QueryTimeseriesInput struct {
	Table       string             `json:"table" jsonschema:"description=Hypertable or table to query"`
	TimeColumn  *string            `json:"time_column,omitempty" jsonschema:"description=Time column used for bucketing,default=time"`
	Interval    *string            `json:"interval,omitempty" jsonschema:"description=Bucket width such as '5 minutes' or '1 hour' (unit one of second/minute/hour/day/week),default=1 hour"`
	Aggregation *string            `json:"aggregation,omitempty" jsonschema:"description=Aggregate function applied per bucket,enum=avg,enum=sum,enum=min,enum=max,enum=count,default=avg"`
	Columns     []string           `json:"columns,omitempty" jsonschema:"description=Value columns to aggregate; required unless aggregation is count"`
	Filters     []TimeseriesFilter `json:"filters,omitempty" jsonschema:"description=Conditions ANDed into the WHERE clause"`
	StartTime   *string            `json:"start_time,omitempty" jsonschema:"description=Inclusive lower time bound (RFC 3339)"`
	EndTime     *string            `json:"end_time,omitempty" jsonschema:"description=Inclusive upper time bound (RFC 3339)"`
	Limit       *int               `json:"limit,omitempty" jsonschema:"description=Maximum buckets returned (up to 10000),default=1000"`
}

// ExportQueryInput is the input of the export_query tool.
type ExportQueryInput struct {
	SQL    string  `json:"sql" jsonschema:"description=Single SQL statement whose result set to export"`
	Params []any   `json:"params,omitempty" jsonschema:"description=Positional parameters bound to $1..$n"`
	Format *string `json:"format,omitempty" jsonschema:"description=Export encoding,enum=json,enum=csv,default=json"`
}
