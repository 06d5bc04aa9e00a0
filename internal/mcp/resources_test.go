package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func TestReadTableResource(t *testing.T) {
	db := &fakeDB{tableDesc: &database.TableDescriptor{
		Schema: "public",
		Name:   "conditions",
		Columns: []database.ColumnDescriptor{
			{Name: "time", DataType: "timestamp with time zone"},
		},
	}}
	s := newTestServer(db, nil)

	contents, err := s.readTableResource(context.Background(), readRequest("timescaledb://table/conditions"))
	require.NoError(t, err)
	require.Len(t, contents, 1)

	assert.Equal(t, "conditions", db.describedTable)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected text resource contents, got %T", contents[0])
	assert.Equal(t, "timescaledb://table/conditions", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, `"name": "conditions"`)
}

func TestReadHypertableResource(t *testing.T) {
	interval := "1 day"
	db := &fakeDB{hyperDesc: &database.HypertableDescriptor{
		Schema: "public",
		Name:   "conditions",
		Dimensions: []database.DimensionDescriptor{
			{Column: "time", ColumnType: "timestamp with time zone", Type: "time", TimeInterval: &interval},
		},
		ChunkCount:         14,
		CompressionEnabled: true,
		CompressedChunks:   10,
	}}
	s := newTestServer(db, nil)

	contents, err := s.readHypertableResource(context.Background(), readRequest("timescaledb://hypertable/conditions"))
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"chunk_count": 14`)
	assert.Contains(t, text.Text, `"time_interval": "1 day"`)
}

func TestReadTableResourceNotFound(t *testing.T) {
	db := &fakeDB{err: errs.New(errs.ErrKindNotFound, `table "ghosts" not found`)}
	s := newTestServer(db, nil)

	_, err := s.readTableResource(context.Background(), readRequest("timescaledb://table/ghosts"))
	require.Error(t, err)
	assert.Equal(t, `not_found: table "ghosts" not found`, err.Error())
}

func TestResourceErrorStripsCause(t *testing.T) {
	cause := errs.Wrap(errs.ErrKindConnectionFailed, "connect failed",
		assert.AnError)

	got := resourceError(cause)
	assert.Equal(t, "connection_failed: connect failed", got.Error())
}
