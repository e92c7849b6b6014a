package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/rpggio/attendance/internal/domain/tracker"
)

// Handler dispatches MCP tool calls.
type Handler struct {
	tracker  TrackerService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(trackerSvc TrackerService, activitySvc ActivityService) *Handler {
	return &Handler{
		tracker:  trackerSvc,
		activity: activitySvc,
	}
}

// Handle dispatches a tool call to the domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_subjects":
		subjects, err := h.tracker.Subjects(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return SubjectsResponse{Subjects: subjects}, nil
	case "add_subject":
		added, err := h.tracker.AddSubject(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return added, nil
	case "update_subject":
		var req UpdateSubjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		field, err := subject.ParseField(req.Field)
		if err != nil {
			return nil, mapError(err)
		}
		res, err := h.tracker.UpdateSubject(ctx, tracker.UpdateRequest{ID: req.ID, Field: field, Value: req.Value})
		if err != nil {
			return nil, mapError(err)
		}
		resp := UpdateSubjectResponse{Found: res.Found, MigratedDays: res.MigratedDays}
		if res.Found {
			resp.Subject = &res.Subject
		}
		return resp, nil
	case "remove_subject":
		var req RemoveSubjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := h.tracker.RemoveSubject(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		resp := RemoveSubjectResponse{Found: res.Found, Replacement: res.Replacement, DroppedDays: res.DroppedDays}
		if res.Found {
			resp.Removed = &res.Removed
		}
		return resp, nil
	case "record_attendance", "remove_attendance":
		var req AttendanceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		date, err := h.tracker.ParseDate(req.Date)
		if err != nil {
			return nil, mapError(err)
		}
		apply := h.tracker.RecordAttendance
		if method == "remove_attendance" {
			apply = h.tracker.RemoveAttendance
		}
		res, err := apply(ctx, date, req.Subject)
		if err != nil {
			return nil, mapError(err)
		}
		return attendanceResponse(res), nil
	case "save_attendance":
		var req SaveAttendanceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		date, err := h.tracker.ParseDate(req.Date)
		if err != nil {
			return nil, mapError(err)
		}
		results, err := h.tracker.SaveAttendance(ctx, date, req.Subjects)
		if err != nil {
			return nil, mapError(err)
		}
		resp := SaveAttendanceResponse{Results: make([]AttendanceResponse, 0, len(results))}
		for _, res := range results {
			resp.Date = res.Date
			resp.Results = append(resp.Results, attendanceResponse(res))
		}
		return resp, nil
	case "mark_day", "unmark_day":
		var req DayActionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		date, err := h.tracker.ParseDate(req.Date)
		if err != nil {
			return nil, mapError(err)
		}
		apply := h.tracker.MarkDay
		if method == "unmark_day" {
			apply = h.tracker.UnmarkDay
		}
		res, err := apply(ctx, date, ledger.ParseFilter(req.Filter))
		if err != nil {
			return nil, mapError(err)
		}
		return attendanceResponse(res), nil
	case "get_overview":
		overview, err := h.tracker.Overview(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return OverviewResponse{
			Today:    h.tracker.Today(),
			Overall:  overview.Overall,
			Subjects: overview.Subjects,
		}, nil
	case "get_heatmap":
		var req GetHeatmapParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		hm, err := h.tracker.Heatmap(ctx, ledger.ParseFilter(req.Filter))
		if err != nil {
			return nil, mapError(err)
		}
		return hm, nil
	case "get_history":
		var req GetHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.history(ctx, req)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListOptions{
			Subject: req.Subject,
			Limit:   req.Limit,
			Offset:  req.Offset,
		}
		if req.Type != "" {
			activityType := activity.Type(req.Type)
			opts.Type = &activityType
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.Type,
				SubjectID: entry.SubjectID,
				Subject:   entry.Subject,
				Date:      entry.Date,
				Summary:   entry.Summary,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) history(ctx context.Context, req GetHistoryParams) (HistoryResponse, error) {
	for _, bound := range []string{req.From, req.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(ledger.DateLayout, bound); err != nil {
			return HistoryResponse{}, mapError(fmt.Errorf("%w: %q", ledger.ErrInvalidDate, bound))
		}
	}

	l, err := h.tracker.History(ctx)
	if err != nil {
		return HistoryResponse{}, mapError(err)
	}
	f := ledger.ParseFilter(req.Filter)
	streak, err := h.tracker.CurrentStreak(ctx, f)
	if err != nil {
		return HistoryResponse{}, mapError(err)
	}

	resp := HistoryResponse{
		Filter:             f.String(),
		Days:               []HistoryDay{},
		TotalContributions: l.TotalContributions(f, req.From, req.To),
		CurrentStreak:      streak,
	}
	for _, key := range l.Keys() {
		if (req.From != "" && key < req.From) || (req.To != "" && key > req.To) {
			continue
		}
		counts := f.Select(l[key])
		if len(counts) == 0 {
			continue
		}
		resp.Days = append(resp.Days, HistoryDay{Date: key, Counts: counts, Total: counts.Total()})
	}
	return resp, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams(err)
	}
	return nil
}
