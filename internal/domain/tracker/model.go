package tracker

import (
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/stats"
	"github.com/rpggio/attendance/internal/domain/subject"
)

// Document keys in the store.
const (
	SubjectsKey = "attendanceSubjects"
	HistoryKey  = "attendanceHistory"
)

// State is everything the tracker persists. A State held by the Service is
// replaced on every change and never modified in place.
type State struct {
	Subjects []subject.Subject `json:"subjects"`
	History  ledger.Ledger     `json:"history"`
}

// UpdateRequest sets one field on a subject.
type UpdateRequest struct {
	ID    string
	Field subject.Field
	Value string
}

// UpdateResult describes an update. Found is false for an unknown id.
type UpdateResult struct {
	Subject      subject.Subject
	Found        bool
	MigratedDays int
}

// RemoveResult describes a removal. Replacement is set when the last
// subject was replaced by a blank one.
type RemoveResult struct {
	Removed     subject.Subject
	Replacement *subject.Subject
	Found       bool
	DroppedDays int
}

// AttendanceResult is the count for one subject on one day after a change.
type AttendanceResult struct {
	Date    string
	Subject string
	Count   int
	Changed bool
}

// Overview is the overall and per-subject statistics.
type Overview struct {
	Overall  stats.Overall        `json:"overall"`
	Subjects []stats.SubjectStats `json:"subjects"`
}
