package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitlog/internal/models"
	"github.com/claude/fitlog/internal/preset"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cutoff := time.Now().AddDate(0, 0, -14)

	var recent []models.WorkoutSession
	for _, sess := range h.store.Sessions() {
		if sess.Day().Before(cutoff) {
			break
		}
		recent = append(recent, sess)
	}

	return jsonResource(req, recent)
}

func (h *handlers) syncStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req, map[string]any{
		"loading":   h.store.Loading(),
		"lastError": h.store.LastError(),
		"pending":   h.store.PendingIDs(),
	})
}

func (h *handlers) machineCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req, map[string]any{
		"machines":   preset.Machines,
		"commonReps": preset.CommonReps,
		"commonSets": preset.CommonSets,
	})
}

func jsonResource(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
