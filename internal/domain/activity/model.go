package activity

import "time"

// Type represents the kind of tracker change
type Type string

const (
	TypeSubjectAdded       Type = "subject_added"
	TypeSubjectUpdated     Type = "subject_updated"
	TypeSubjectRemoved     Type = "subject_removed"
	TypeAttendanceRecorded Type = "attendance_recorded"
	TypeAttendanceRemoved  Type = "attendance_removed"
	TypeHistoryPruned      Type = "history_pruned"
	TypeStateReset         Type = "state_reset"
)

// Entry represents an event in the activity log
type Entry struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	SubjectID string    `json:"subject_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Date      string    `json:"date,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
