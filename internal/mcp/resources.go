package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/koustreak/timescale-mcp/internal/errs"
)

const (
	tableResourcePrefix      = "timescaledb://table/"
	hypertableResourcePrefix = "timescaledb://hypertable/"
)

// registerResources registers templated resources so clients can pull table
// and hypertable layouts without a tool round trip.
func (s *Server) registerResources() {
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			tableResourcePrefix+"{name}",
			"Table schema",
			mcp.WithTemplateDescription("Column layout and approximate row count of one table in the public schema."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readTableResource,
	)

	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			hypertableResourcePrefix+"{name}",
			"Hypertable layout",
			mcp.WithTemplateDescription("Dimensions, chunk statistics and compression state of one hypertable."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readHypertableResource,
	)
}

func (s *Server) readTableResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name := strings.TrimPrefix(request.Params.URI, tableResourcePrefix)

	desc, err := s.db.DescribeTable(ctx, name)
	if err != nil {
		return nil, resourceError(err)
	}
	return jsonResource(request.Params.URI, desc)
}

func (s *Server) readHypertableResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name := strings.TrimPrefix(request.Params.URI, hypertableResourcePrefix)

	desc, err := s.db.DescribeHypertable(ctx, name)
	if err != nil {
		return nil, resourceError(err)
	}
	return jsonResource(request.Params.URI, desc)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// resourceError strips the cause chain so driver details never reach the
// client.
func resourceError(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return fmt.Errorf("%s: %s", e.Kind, e.Message)
	}
	return err
}
