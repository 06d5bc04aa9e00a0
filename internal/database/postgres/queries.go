package postgres

// defaultSchema is the only schema the introspection surface exposes.
const defaultSchema = "public"

// recentChunkLimit caps the per-hypertable chunk listing.
const recentChunkLimit = 10

// Catalog queries. Identifiers always arrive as bind parameters; these
// strings are the only SQL this package ever composes by hand.
const (
	queryListTables = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	queryTableColumns = `
		SELECT column_name,
		       data_type,
		       is_nullable = 'YES',
		       column_default,
		       character_maximum_length
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name   = $2
		ORDER BY ordinal_position`

	// reltuples is the planner's estimate, refreshed by VACUUM and ANALYZE.
	// -1 means the table was never analyzed.
	queryTableRowEstimate = `
		SELECT c.reltuples::bigint
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		  AND c.relname = $2`

	queryListHypertables = `
		SELECT hypertable_schema,
		       hypertable_name,
		       num_dimensions,
		       compression_enabled
		FROM timescaledb_information.hypertables
		ORDER BY hypertable_name`

	queryHypertable = `
		SELECT hypertable_schema,
		       hypertable_name,
		       compression_enabled
		FROM timescaledb_information.hypertables
		WHERE hypertable_name = $1`

	queryHypertableDimensions = `
		SELECT column_name,
		       column_type::text,
		       lower(dimension_type),
		       time_interval::text,
		       integer_interval,
		       num_partitions
		FROM timescaledb_information.dimensions
		WHERE hypertable_name = $1
		ORDER BY dimension_number`

	queryHypertableChunkStats = `
		SELECT count(*),
		       count(*) FILTER (WHERE is_compressed)
		FROM timescaledb_information.chunks
		WHERE hypertable_name = $1`

	queryHypertableRecentChunks = `
		SELECT chunk_schema,
		       chunk_name,
		       range_start,
		       range_end,
		       is_compressed
		FROM timescaledb_information.chunks
		WHERE hypertable_name = $1
		ORDER BY range_start DESC
		LIMIT $2`
)
