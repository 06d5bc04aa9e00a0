package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/timescale-mcp/internal/errs"
)

func TestTimeseriesBuild_Basic(t *testing.T) {
	sql, args, err := Timeseries("metrics", "ts").
		Bucket("5 minutes").
		Aggregate("avg", "value").
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT time_bucket($1::interval, "ts") AS bucket, avg("value") AS "avg_value"`+
			` FROM "metrics" GROUP BY bucket ORDER BY bucket ASC LIMIT $2`,
		sql)
	assert.Equal(t, []any{"5 minutes", 1000}, args)
}

func TestTimeseriesBuild_Defaults(t *testing.T) {
	// empty time column falls back to "time", interval to "1 hour"
	sql, args, err := Timeseries("conditions", "").
		Aggregate("max", "temperature").
		Build()
	require.NoError(t, err)

	assert.Contains(t, sql, `time_bucket($1::interval, "time")`)
	assert.Contains(t, sql, `max("temperature") AS "max_temperature"`)
	assert.Equal(t, []any{"1 hour", DefaultQueryLimit}, args)
}

func TestTimeseriesBuild_CountWithoutColumns(t *testing.T) {
	sql, args, err := Timeseries("events", "created_at").
		Bucket("1 day").
		Aggregate("count").
		Build()
	require.NoError(t, err)

	assert.Contains(t, sql, `count(*) AS "count"`)
	assert.Equal(t, []any{"1 day", 1000}, args)
}

func TestTimeseriesBuild_MultipleColumns(t *testing.T) {
	sql, _, err := Timeseries("metrics", "ts").
		Bucket("1 hour").
		Aggregate("avg", "cpu", "mem").
		Build()
	require.NoError(t, err)

	assert.Contains(t, sql, `avg("cpu") AS "avg_cpu", avg("mem") AS "avg_mem"`)
}

func TestTimeseriesBuild_FiltersAndBounds(t *testing.T) {
	sql, args, err := Timeseries("metrics", "ts").
		Bucket("5 minutes").
		Aggregate("sum", "bytes").
		Filter("device_id", "=", "dev-1").
		Filter("bytes", ">", 0).
		Start("2026-01-01T00:00:00Z").
		End("2026-01-02T00:00:00Z").
		Limit(500).
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT time_bucket($1::interval, "ts") AS bucket, sum("bytes") AS "sum_bytes"`+
			` FROM "metrics"`+
			` WHERE "device_id" = $2 AND "bytes" > $3`+
			` AND "ts" >= $4::timestamptz AND "ts" <= $5::timestamptz`+
			` GROUP BY bucket ORDER BY bucket ASC LIMIT $6`,
		sql)
	assert.Equal(t, []any{
		"5 minutes", "dev-1", 0,
		"2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z", 500,
	}, args)
}

func TestTimeseriesBuild_ValueNeverInterpolated(t *testing.T) {
	hostile := "x' OR '1'='1"
	sql, args, err := Timeseries("metrics", "ts").
		Aggregate("count").
		Filter("label", "=", hostile).
		Build()
	require.NoError(t, err)

	assert.NotContains(t, sql, hostile, "filter value must stay a bound parameter")
	assert.Contains(t, args, hostile)
}

func TestTimeseriesBuild_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		builder *TimeseriesBuilder
	}{
		{
			name:    "hostile table name",
			builder: Timeseries("metrics; DROP TABLE metrics", "ts").Aggregate("count"),
		},
		{
			name:    "hostile time column",
			builder: Timeseries("metrics", `ts") FROM x; --`).Aggregate("count"),
		},
		{
			name:    "bad interval",
			builder: Timeseries("metrics", "ts").Bucket("1 month").Aggregate("count"),
		},
		{
			name:    "bad aggregation",
			builder: Timeseries("metrics", "ts").Aggregate("median", "v"),
		},
		{
			name:    "aggregation without columns",
			builder: Timeseries("metrics", "ts").Aggregate("avg"),
		},
		{
			name:    "bad aggregate column",
			builder: Timeseries("metrics", "ts").Aggregate("avg", "v; DELETE FROM t"),
		},
		{
			name:    "bad filter column",
			builder: Timeseries("metrics", "ts").Aggregate("count").Filter("bad-col", "=", 1),
		},
		{
			name:    "bad filter operator",
			builder: Timeseries("metrics", "ts").Aggregate("count").Filter("c", "LIKE", "x"),
		},
		{
			name:    "limit too large",
			builder: Timeseries("metrics", "ts").Aggregate("count").Limit(MaxQueryLimit + 1),
		},
		{
			name:    "explicit zero limit",
			builder: Timeseries("metrics", "ts").Aggregate("count").Limit(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.builder.Build()
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err), "want invalid input, got %v", err)
		})
	}
}

func TestTimeseriesTable(t *testing.T) {
	assert.Equal(t, "metrics", Timeseries("metrics", "ts").Table())
}
