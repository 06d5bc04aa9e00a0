package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/timescale-mcp/internal/errs"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{
		"metrics",
		"device_readings",
		"_private",
		"t1",
		"CamelCase",
		strings.Repeat("a", 63),
	}
	for _, name := range valid {
		t.Run("valid/"+name, func(t *testing.T) {
			assert.NoError(t, ValidateIdentifier("table name", name))
		})
	}

	invalid := []string{
		"",
		"1table",
		"bad-name",
		"has space",
		"semi;colon",
		`quo"ted`,
		"drop table x",
		"users; DROP TABLE users",
		"tbl\x00",
		"日本語",
		strings.Repeat("a", 64),
	}
	for _, name := range invalid {
		t.Run("invalid/"+name, func(t *testing.T) {
			err := ValidateIdentifier("table name", name)
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestValidateInterval(t *testing.T) {
	valid := []string{
		"1 second",
		"30 seconds",
		"5 minutes",
		"1 hour",
		"12 hours",
		"1 day",
		"7 days",
		"2 weeks",
	}
	for _, iv := range valid {
		t.Run("valid/"+iv, func(t *testing.T) {
			assert.NoError(t, ValidateInterval(iv))
		})
	}

	invalid := []string{
		"",
		"hour",
		"1hour",
		"0 hours",
		"-1 hour",
		"1  hours",
		"1 month",
		"1 fortnight",
		"1 hour; DROP TABLE x",
		"5 minutes --",
		"9999999999 seconds",
	}
	for _, iv := range invalid {
		t.Run("invalid/"+iv, func(t *testing.T) {
			err := ValidateInterval(iv)
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestValidateAggregation(t *testing.T) {
	for _, fn := range []string{"avg", "sum", "min", "max", "count"} {
		assert.NoError(t, ValidateAggregation(fn))
	}

	for _, fn := range []string{"", "median", "AVG", "string_agg", "avg(", "avg;"} {
		err := ValidateAggregation(fn)
		require.Error(t, err, "aggregation %q should be rejected", fn)
		assert.True(t, errs.IsInvalidInput(err))
	}
}

func TestValidateOperator(t *testing.T) {
	for _, op := range []string{"=", "!=", "<", "<=", ">", ">="} {
		assert.NoError(t, ValidateOperator(op))
	}

	for _, op := range []string{"", "<>", "LIKE", "like", "IN", "OR", "= 1 OR 1 ="} {
		err := ValidateOperator(op)
		require.Error(t, err, "operator %q should be rejected", op)
		assert.True(t, errs.IsInvalidInput(err))
	}
}

func TestValidateLimit(t *testing.T) {
	assert.NoError(t, ValidateLimit(1))
	assert.NoError(t, ValidateLimit(1000))
	assert.NoError(t, ValidateLimit(MaxQueryLimit))

	for _, n := range []int{0, -1, MaxQueryLimit + 1} {
		err := ValidateLimit(n)
		require.Error(t, err, "limit %d should be rejected", n)
		assert.True(t, errs.IsInvalidInput(err))
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"metrics"`, quoteIdent("metrics"))
	assert.Equal(t, `"Mixed_Case"`, quoteIdent("Mixed_Case"))
	// doubled quotes keep the identifier inert even for names that never
	// pass validation
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
