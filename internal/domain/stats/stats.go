// Package stats derives attendance percentages and projections against the
// 75% attendance requirement.
package stats

import (
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/shopspring/decimal"
)

// Threshold is the required attendance percentage.
const Threshold = 75

// Status classifies attendance against the threshold.
type Status string

const (
	StatusSafe    Status = "safe"
	StatusDanger  Status = "danger"
	StatusNeutral Status = "neutral"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns attended/total as a percentage rounded to two decimal
// places, or 0 when total is 0.
func Percentage(attended, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(attended)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}

// ClassesNeededFor75 returns how many consecutive classes must be attended
// to reach 75%. Each attended class raises both attended and total, so the
// answer is ceil((0.75*total - attended) / 0.25), which is 3*total - 4*attended.
func ClassesNeededFor75(attended, total int) int {
	if total <= 0 || meetsThreshold(attended, total) {
		return 0
	}
	return int(max(0, 3*int64(total)-4*int64(attended)))
}

// ClassesCanSkip returns how many classes can be missed while staying at or
// above 75%: floor((attended - 0.75*total) / 0.75).
func ClassesCanSkip(attended, total int) int {
	if total <= 0 || !meetsThreshold(attended, total) {
		return 0
	}
	return int(max(0, (4*int64(attended)-3*int64(total))/3))
}

// meetsThreshold reports attended/total >= 0.75 without floating point.
func meetsThreshold(attended, total int) bool {
	return 4*int64(attended) >= 3*int64(total)
}

// Overall aggregates every subject's counts.
type Overall struct {
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Status     Status  `json:"status"`
}

// OverallStats sums attended and total over all subjects. Unset counts
// contribute 0.
func OverallStats(subjects []subject.Subject) Overall {
	var out Overall
	for _, s := range subjects {
		out.Attended += s.Attended.Int()
		out.Total += s.Total.Int()
	}
	out.Percentage = Percentage(out.Attended, out.Total)
	switch {
	case out.Total == 0:
		out.Status = StatusNeutral
	case out.Percentage >= Threshold:
		out.Status = StatusSafe
	default:
		out.Status = StatusDanger
	}
	return out
}

// SubjectStats are the derived figures for one subject.
type SubjectStats struct {
	SubjectID      string  `json:"subject_id"`
	Name           string  `json:"name"`
	Attended       int     `json:"attended"`
	Total          int     `json:"total"`
	HasData        bool    `json:"has_data"`
	Percentage     float64 `json:"percentage"`
	ClassesNeeded  int     `json:"classes_needed"`
	ClassesCanSkip int     `json:"classes_can_skip"`
	Status         Status  `json:"status"`
}

// ForSubject derives a subject's figures. A subject has data once both
// counts are entered and total is positive; until then its status is neutral.
func ForSubject(s subject.Subject) SubjectStats {
	attended, total := s.Attended.Int(), s.Total.Int()
	out := SubjectStats{
		SubjectID:      s.ID,
		Name:           s.Name,
		Attended:       attended,
		Total:          total,
		HasData:        s.Attended.IsSet() && s.Total.IsSet() && total > 0,
		Percentage:     Percentage(attended, total),
		ClassesNeeded:  ClassesNeededFor75(attended, total),
		ClassesCanSkip: ClassesCanSkip(attended, total),
		Status:         StatusNeutral,
	}
	if out.HasData {
		if out.Percentage < Threshold {
			out.Status = StatusDanger
		} else {
			out.Status = StatusSafe
		}
	}
	return out
}
