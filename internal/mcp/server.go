// Package mcp exposes the workout log to LLM assistants over the Model
// Context Protocol. Tools answer questions like "what did I lift last
// week" and "what is my leg press record" directly from the store.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitlog/internal/store"
)

// New creates an MCP server with all tools and resources registered.
func New(st *store.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitLog workout tracker. Query logged gym sessions, machine history, personal records, weekly volume and streaks."),
	)

	h := &handlers{store: st, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWeeklyStats, Handler: h.getWeeklyStats},
		server.ServerTool{Tool: toolGetStreak, Handler: h.getStreak},
		server.ServerTool{Tool: toolGetPersonalRecord, Handler: h.getPersonalRecord},
		server.ServerTool{Tool: toolGetMachineHistory, Handler: h.getMachineHistory},
		server.ServerTool{Tool: toolListMachines, Handler: h.listMachines},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resSyncStatus, Handler: h.syncStatus},
		server.ServerResource{Resource: resMachineCatalog, Handler: h.machineCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store *store.Store
	log   *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"fitlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workout sessions from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resSyncStatus = mcp.NewResource(
	"fitlog://sync_status",
	"Sync Status",
	mcp.WithResourceDescription("Cloud sync state: pending session ids and the last remote error"),
	mcp.WithMIMEType("application/json"),
)

var resMachineCatalog = mcp.NewResource(
	"fitlog://machine_catalog",
	"Machine Catalog",
	mcp.WithResourceDescription("Built-in gym machine presets by category with default weights"),
	mcp.WithMIMEType("application/json"),
)
