package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitlog/internal/models"
)

// defaultDateRange returns start/end defaulting to the last 30 days.
func defaultDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = time.Parse(models.DateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = time.Parse(models.DateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List logged workout sessions, newest first. Each session has a date and the exercises performed with weight, sets, reps and how it felt."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("machine", mcp.Description("Only sessions containing this machine (case-insensitive)")),
)

var toolGetWeeklyStats = mcp.NewTool("get_weekly_stats",
	mcp.WithDescription("Training volume, sets, reps and workout count for the current week (Monday start), compared against the previous week."),
)

var toolGetStreak = mcp.NewTool("get_streak",
	mcp.WithDescription("Current and longest streak of consecutive weeks meeting the weekly workout goal, plus this week's session count."),
)

var toolGetPersonalRecord = mcp.NewTool("get_personal_record",
	mcp.WithDescription("The heaviest weight ever logged on a machine and when it happened."),
	mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name (case-insensitive, e.g. 'leg press')")),
)

var toolGetMachineHistory = mcp.NewTool("get_machine_history",
	mcp.WithDescription("Every logged occurrence of a machine in chronological order: weight, sets, reps and feeling per session."),
	mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name (case-insensitive)")),
)

var toolListMachines = mcp.NewTool("list_machines",
	mcp.WithDescription("All machines ever logged, with how often each was used (top 10 by frequency) and which were used in the last two weeks."),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	machine := req.GetString("machine", "")

	var out []models.WorkoutSession
	for _, sess := range h.store.Sessions() {
		day := sess.Day()
		if day.Before(start) || day.After(end) {
			continue
		}
		if machine != "" && !sessionUsesMachine(sess, machine) {
			continue
		}
		out = append(out, sess)
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func sessionUsesMachine(sess models.WorkoutSession, machine string) bool {
	for _, ex := range sess.Exercises {
		if ex.MatchesMachine(machine) {
			return true
		}
	}
	return false
}

func (h *handlers) getWeeklyStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.store.WeeklyStats())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStreak(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.store.Streak())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	machine, err := req.RequireString("machine")
	if err != nil {
		return mcp.NewToolResultError("machine parameter is required"), nil
	}

	record, ok := h.store.PersonalRecordFor(machine)
	if !ok {
		return mcp.NewToolResultError("no sessions logged for machine: " + machine), nil
	}

	result, err := mcp.NewToolResultJSON(record)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMachineHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	machine, err := req.RequireString("machine")
	if err != nil {
		return mcp.NewToolResultError("machine parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(h.store.MachineHistory(machine))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMachines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"all":      h.store.Machines(),
		"frequent": h.store.FrequentMachines(),
		"recent":   h.store.RecentMachines(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
