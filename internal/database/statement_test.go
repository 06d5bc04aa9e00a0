package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/timescale-mcp/internal/errs"
)

func TestValidateSingleStatement(t *testing.T) {
	ok := []struct {
		name string
		sql  string
	}{
		{"plain select", "SELECT 1"},
		{"trailing semicolon", "SELECT 1;"},
		{"trailing semicolon and whitespace", "SELECT 1 ;  \n"},
		{"semicolon in string literal", "SELECT 'a;b' FROM t"},
		{"escaped quote in literal", "SELECT 'it''s; fine'"},
		{"semicolon in quoted identifier", `SELECT "a;b" FROM t`},
		{"dollar-quoted body", "SELECT $$one; two$$"},
		{"tagged dollar quote", "SELECT $fn$ x; y $fn$"},
		{"positional parameters", "SELECT * FROM t WHERE id = $1 AND v > $2"},
		{"line comment", "SELECT 1 -- not; a second statement"},
		{"block comment", "SELECT /* one; two */ 1"},
		{"nested block comment", "/* a /* b; */ c */ SELECT 1"},
		{"comment after terminator", "SELECT 1; -- done"},
		{"multiline", "SELECT a,\n       b\nFROM t\nWHERE c = $1;"},
	}
	for _, tt := range ok {
		t.Run("ok/"+tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateSingleStatement(tt.sql))
		})
	}

	bad := []struct {
		name string
		sql  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
		{"two statements", "SELECT 1; SELECT 2"},
		{"piggybacked drop", "SELECT * FROM t WHERE id = $1; DROP TABLE t"},
		{"double semicolon", "SELECT 1;;"},
		{"statement after comment", "SELECT 1; /* gap */ DELETE FROM t"},
		{"unterminated literal", "SELECT 'abc"},
		{"unterminated identifier", `SELECT "abc`},
		{"unterminated dollar quote", "SELECT $$abc"},
		{"unterminated block comment", "SELECT 1 /* oops"},
	}
	for _, tt := range bad {
		t.Run("bad/"+tt.name, func(t *testing.T) {
			err := ValidateSingleStatement(tt.sql)
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err), "want invalid input, got %v", err)
		})
	}
}
