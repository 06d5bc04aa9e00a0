package database

import "time"

// TableSummary identifies one user table.
type TableSummary struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

// ColumnDescriptor describes a single column in a table.
// Default and MaxLength are nil when the column has none, so callers can
// tell "no default" apart from a default of the empty string.
type ColumnDescriptor struct {
	Name      string  `json:"name"`
	DataType  string  `json:"data_type"`
	Nullable  bool    `json:"nullable"`
	Default   *string `json:"default"`
	MaxLength *int    `json:"max_length"`
}

// TableDescriptor describes a table, its columns in ordinal order, and an
// approximate row count. RowEstimate is nil when the planner statistics are
// unavailable; describing the table still succeeds.
type TableDescriptor struct {
	Schema      string             `json:"schema"`
	Name        string             `json:"name"`
	Columns     []ColumnDescriptor `json:"columns"`
	RowEstimate *int64             `json:"row_estimate"`
}

// HypertableSummary identifies one TimescaleDB hypertable.
type HypertableSummary struct {
	Schema             string `json:"schema"`
	Name               string `json:"name"`
	NumDimensions      int    `json:"num_dimensions"`
	CompressionEnabled bool   `json:"compression_enabled"`
}

// DimensionDescriptor describes one partitioning dimension of a hypertable.
// Type is "time" or "space". Time dimensions carry the chunk interval;
// space dimensions carry the partition count.
type DimensionDescriptor struct {
	Column          string  `json:"column"`
	ColumnType      string  `json:"column_type"`
	Type            string  `json:"type"`
	TimeInterval    *string `json:"time_interval"`
	IntegerInterval *int64  `json:"integer_interval"`
	NumPartitions   *int    `json:"num_partitions"`
}

// ChunkInfo describes one chunk of a hypertable. Range bounds are nil for
// hypertables partitioned on integer time columns.
type ChunkInfo struct {
	Schema     string     `json:"schema"`
	Name       string     `json:"name"`
	RangeStart *time.Time `json:"range_start"`
	RangeEnd   *time.Time `json:"range_end"`
	Compressed bool       `json:"compressed"`
}

// HypertableDescriptor describes a hypertable: its dimensions, chunk
// statistics, compression state, and the most recent chunks.
type HypertableDescriptor struct {
	Schema             string                `json:"schema"`
	Name               string                `json:"name"`
	Dimensions         []DimensionDescriptor `json:"dimensions"`
	ChunkCount         int                   `json:"chunk_count"`
	CompressionEnabled bool                  `json:"compression_enabled"`
	CompressedChunks   int                   `json:"compressed_chunks"`
	RecentChunks       []ChunkInfo           `json:"recent_chunks"`
}

// ColumnMeta describes one column of a result set.
type ColumnMeta struct {
	Name     string `json:"name"`
	TypeName string `json:"type"`
}

// QueryResult is a fully collected result set. Rows hold the column values
// keyed by column name; Columns preserves the result order and types.
type QueryResult struct {
	Columns  []ColumnMeta     `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Duration time.Duration    `json:"-"`
}

// PoolStat is a snapshot of the connection pool.
type PoolStat struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}
