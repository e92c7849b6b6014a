// Package calendar lays attendance out as a one-year, week-column heatmap.
package calendar

import (
	"fmt"
	"time"

	"github.com/rpggio/attendance/internal/domain/ledger"
)

// Cell is one day in the grid. Padding cells carry no date.
type Cell struct {
	Date    string     `json:"date,omitempty"`
	Level   int        `json:"level"`
	Counts  ledger.Day `json:"counts,omitempty"`
	Padding bool       `json:"padding,omitempty"`
}

// Week is a Sunday-first column of seven cells.
type Week [7]Cell

// Month labels a header column.
type Month struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

// Heatmap is the rendered grid plus its summary figures.
type Heatmap struct {
	Filter             string  `json:"filter"`
	From               string  `json:"from"`
	To                 string  `json:"to"`
	Weeks              []Week  `json:"weeks"`
	Months             []Month `json:"months"`
	TotalContributions int     `json:"total_contributions"`
	CurrentStreak      int     `json:"current_streak"`
}

// Window returns the first and last day of the one-year window ending today:
// the day after today's date one year ago, through today.
func Window(today string) (from, to string, err error) {
	t, err := time.Parse(ledger.DateLayout, today)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ledger.ErrInvalidDate, today)
	}
	return t.AddDate(-1, 0, 1).Format(ledger.DateLayout), today, nil
}

// Days returns every date key in [from, to].
func Days(from, to string) ([]string, error) {
	start, err := time.Parse(ledger.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidDate, from)
	}
	end, err := time.Parse(ledger.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidDate, to)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(ledger.DateLayout))
	}
	return days, nil
}

// Months returns the twelve months ending with today's month.
func Months(today string) ([]Month, error) {
	t, err := time.Parse(ledger.DateLayout, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidDate, today)
	}

	months := make([]Month, 0, 12)
	for i := 11; i >= 0; i-- {
		m := time.Date(t.Year(), t.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		months = append(months, Month{Name: m.Month().String()[:3], Year: m.Year()})
	}
	return months, nil
}

// Build lays out the ledger over the window ending today.
func Build(l ledger.Ledger, f ledger.Filter, today string) (Heatmap, error) {
	from, to, err := Window(today)
	if err != nil {
		return Heatmap{}, err
	}
	days, err := Days(from, to)
	if err != nil {
		return Heatmap{}, err
	}
	months, err := Months(today)
	if err != nil {
		return Heatmap{}, err
	}
	streak, err := l.CurrentStreak(f, today)
	if err != nil {
		return Heatmap{}, err
	}
	// The chart's streak stops at the first day of the window.
	streak = min(streak, len(days))

	return Heatmap{
		Filter:             f.String(),
		From:               from,
		To:                 to,
		Weeks:              weeks(l, f, days),
		Months:             months,
		TotalContributions: l.TotalContributions(f, from, to),
		CurrentStreak:      streak,
	}, nil
}

func weeks(l ledger.Ledger, f ledger.Filter, days []string) []Week {
	var out []Week
	var current Week
	for i, key := range days {
		d, _ := time.Parse(ledger.DateLayout, key)
		dow := int(d.Weekday())
		if i == 0 {
			for j := 0; j < dow; j++ {
				current[j] = Cell{Padding: true}
			}
		}

		current[dow] = Cell{
			Date:   key,
			Level:  l.DayLevel(key, f),
			Counts: f.Select(l[key]),
		}

		if d.Weekday() == time.Saturday || i == len(days)-1 {
			for j := dow + 1; j < 7; j++ {
				current[j] = Cell{Padding: true}
			}
			out = append(out, current)
			current = Week{}
		}
	}
	return out
}
