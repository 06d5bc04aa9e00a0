// Package export turns query results into downloadable objects.
//
// An Exporter encodes a database.QueryResult as JSON or CSV, writes it to an
// object store under a date-partitioned key, and hands back a time-limited
// download URL. Callers depend only on the Store interface — never on a
// specific provider package.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/timescale-mcp/internal/database"
)

// Store is the single interface all export storage providers must implement.
type Store interface {
	// Ping verifies the storage backend is reachable and the configured
	// bucket exists.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Put writes data under key in the configured bucket.
	Put(ctx context.Context, key, contentType string, data []byte) error

	// PresignGetURL returns a time-limited URL that allows anyone to
	// download the object at key without credentials.
	PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Config holds all settings needed to connect to an export storage backend.
type Config struct {
	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// Bucket receives every exported object. It must already exist.
	Bucket string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string
}

// Result describes one completed export.
type Result struct {
	Key      string `json:"key"`
	Bucket   string `json:"bucket"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
	RowCount int    `json:"row_count"`
	URL      string `json:"url"`
}

// Exporter encodes query results and writes them through a Store.
type Exporter struct {
	store  Store
	bucket string
	urlTTL time.Duration
}

// NewExporter wires a Store to an Exporter. urlTTL bounds the lifetime of
// the presigned download URLs.
func NewExporter(store Store, bucket string, urlTTL time.Duration) *Exporter {
	return &Exporter{store: store, bucket: bucket, urlTTL: urlTTL}
}

// Export encodes res in the given format, stores it, and returns the object
// key together with a presigned download URL.
func (e *Exporter) Export(ctx context.Context, res *database.QueryResult, format Format) (*Result, error) {
	data, err := Encode(res, format)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(time.Now().UTC(), format)
	if err := e.store.Put(ctx, key, format.ContentType(), data); err != nil {
		return nil, err
	}

	url, err := e.store.PresignGetURL(ctx, key, e.urlTTL)
	if err != nil {
		return nil, err
	}

	return &Result{
		Key:      key,
		Bucket:   e.bucket,
		Format:   string(format),
		Bytes:    len(data),
		RowCount: res.RowCount,
		URL:      url,
	}, nil
}

// ObjectKey builds the date-partitioned object key for one export:
// exports/<yyyy>/<mm>/<dd>/<uuid>.<ext>.
func ObjectKey(now time.Time, format Format) string {
	return fmt.Sprintf("exports/%s/%s.%s", now.Format("2006/01/02"), uuid.NewString(), format.Ext())
}
