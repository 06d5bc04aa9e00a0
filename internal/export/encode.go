package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a caller-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unsupported export format %q (want json or csv)", s))
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

// Encode renders a result set in the given format.
func Encode(res *database.QueryResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(res)
	case FormatJSON:
		return encodeJSON(res)
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unsupported export format %q", format))
	}
}

func encodeJSON(res *database.QueryResult) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindUnknown, "failed to encode result as json", err)
	}
	return data, nil
}

// encodeCSV writes a header row of column names followed by one record per
// row, in result-set column order.
func encodeCSV(res *database.QueryResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return nil, errs.Wrap(errs.ErrKindUnknown, "failed to encode result as csv", err)
	}

	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, c := range res.Columns {
			record[i] = renderCSV(row[c.Name])
		}
		if err := w.Write(record); err != nil {
			return nil, errs.Wrap(errs.ErrKindUnknown, "failed to encode result as csv", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.Wrap(errs.ErrKindUnknown, "failed to encode result as csv", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	default:
		return fmt.Sprint(t)
	}
}
