package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

type fakeDB struct {
	pingErr error
	stat    database.PoolStat
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeDB) Close()                         {}
func (f *fakeDB) Stat() database.PoolStat        { return f.stat }

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (*database.QueryResult, error) {
	return nil, nil
}

func (f *fakeDB) QueryWithTimeout(ctx context.Context, timeout time.Duration, sql string, args ...any) (*database.QueryResult, error) {
	return nil, nil
}

func (f *fakeDB) ListTables(ctx context.Context) ([]database.TableSummary, error) {
	return nil, nil
}

func (f *fakeDB) DescribeTable(ctx context.Context, table string) (*database.TableDescriptor, error) {
	return nil, nil
}

func (f *fakeDB) ListHypertables(ctx context.Context) ([]database.HypertableSummary, error) {
	return nil, nil
}

func (f *fakeDB) DescribeHypertable(ctx context.Context, table string) (*database.HypertableDescriptor, error) {
	return nil, nil
}

func (f *fakeDB) QueryTimeseries(ctx context.Context, b *database.TimeseriesBuilder) (*database.QueryResult, error) {
	return nil, nil
}

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := New(":0", &fakeDB{}, zerolog.Nop())

	rec := serve(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthzIgnoresDatabaseState(t *testing.T) {
	db := &fakeDB{pingErr: errs.New(errs.ErrKindConnectionFailed, "database down")}
	s := New(":0", db, zerolog.Nop())

	rec := serve(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	db := &fakeDB{stat: database.PoolStat{
		TotalConns:    3,
		IdleConns:     2,
		AcquiredConns: 1,
		MaxConns:      10,
	}}
	s := New(":0", db, zerolog.Nop())

	rec := serve(t, s, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"total_conns":3`)
	assert.Contains(t, body, `"max_conns":10`)
}

func TestReadyzUnavailable(t *testing.T) {
	db := &fakeDB{pingErr: errs.New(errs.ErrKindConnectionFailed, "connection refused")}
	s := New(":0", db, zerolog.Nop())

	rec := serve(t, s, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"connection_failed"`)
}

func TestUnknownPath(t *testing.T) {
	s := New(":0", &fakeDB{}, zerolog.Nop())

	rec := serve(t, s, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	s := New("127.0.0.1:0", &fakeDB{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond) // let the listener come up
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
