package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const recentSessionCount = 10

func (h *handlers) routines(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	routines, err := h.ds.Routines(ctx)
	if err != nil {
		return nil, fmt.Errorf("routines: %w", err)
	}
	return jsonResource(req.Params.URI, routines)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	volumes, err := h.ds.SessionVolumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	return jsonResource(req.Params.URI, tail(volumes, recentSessionCount))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
