package mcp

import (
	"time"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/stats"
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/rpggio/attendance/internal/domain/tracker"
)

type UpdateSubjectParams struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type RemoveSubjectParams struct {
	ID string `json:"id"`
}

type AttendanceParams struct {
	Subject string `json:"subject"`
	Date    string `json:"date,omitempty"`
}

type SaveAttendanceParams struct {
	Subjects []string `json:"subjects"`
	Date     string   `json:"date,omitempty"`
}

type DayActionParams struct {
	Date   string `json:"date,omitempty"`
	Filter string `json:"filter,omitempty"`
}

type GetHeatmapParams struct {
	Filter string `json:"filter,omitempty"`
}

type GetHistoryParams struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Filter string `json:"filter,omitempty"`
}

type GetRecentActivityParams struct {
	Type    string `json:"type,omitempty"`
	Subject string `json:"subject,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

type SubjectsResponse struct {
	Subjects []subject.Subject `json:"subjects"`
}

type UpdateSubjectResponse struct {
	Found        bool             `json:"found"`
	Subject      *subject.Subject `json:"subject,omitempty"`
	MigratedDays int              `json:"migrated_days,omitempty"`
}

type RemoveSubjectResponse struct {
	Found       bool             `json:"found"`
	Removed     *subject.Subject `json:"removed,omitempty"`
	Replacement *subject.Subject `json:"replacement,omitempty"`
	DroppedDays int              `json:"dropped_days,omitempty"`
}

type AttendanceResponse struct {
	Date    string `json:"date"`
	Subject string `json:"subject,omitempty"`
	Count   int    `json:"count"`
	Changed bool   `json:"changed"`
}

type SaveAttendanceResponse struct {
	Date    string               `json:"date"`
	Results []AttendanceResponse `json:"results"`
}

type OverviewResponse struct {
	Today    string               `json:"today"`
	Overall  stats.Overall        `json:"overall"`
	Subjects []stats.SubjectStats `json:"subjects"`
}

type HistoryDay struct {
	Date   string     `json:"date"`
	Counts ledger.Day `json:"counts"`
	Total  int        `json:"total"`
}

type HistoryResponse struct {
	Filter             string       `json:"filter"`
	Days               []HistoryDay `json:"days"`
	TotalContributions int          `json:"total_contributions"`
	CurrentStreak      int          `json:"current_streak"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      activity.Type `json:"type"`
	SubjectID string        `json:"subject_id,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	Date      string        `json:"date,omitempty"`
	Summary   string        `json:"summary"`
}

func attendanceResponse(res tracker.AttendanceResult) AttendanceResponse {
	return AttendanceResponse{
		Date:    res.Date,
		Subject: res.Subject,
		Count:   res.Count,
		Changed: res.Changed,
	}
}
