package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/ledger"
)

// Today returns today's date key.
func (s *Service) Today() string {
	return ledger.DateKey(s.opts.Now(), s.opts.Location)
}

// DateKey returns the date key of t in the tracker's location.
func (s *Service) DateKey(t time.Time) string {
	return ledger.DateKey(t, s.opts.Location)
}

// ParseDate parses a date key in the tracker's location. An empty key
// means today.
func (s *Service) ParseDate(key string) (time.Time, error) {
	if key == "" {
		key = s.Today()
	}
	return ledger.ParseDate(key, s.opts.Location)
}

// RecordAttendance adds one class for the named subject on date. The
// subject must exist. Future dates are accepted.
func (s *Service) RecordAttendance(ctx context.Context, date time.Time, name string) (AttendanceResult, error) {
	key := s.DateKey(date)
	res := AttendanceResult{Date: key, Subject: name}
	err := s.mutate(ctx, func(c *change) error {
		if _, ok := c.registry.FindByName(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSubject, name)
		}
		res.Count = c.history.Record(key, name)
		res.Changed = true
		c.log(recordedEntry(key, name, res.Count))
		return nil
	})
	if err != nil {
		return AttendanceResult{}, err
	}
	return res, nil
}

// RemoveAttendance takes one class away from the named subject on date.
// Removing an absent entry is a no-op.
func (s *Service) RemoveAttendance(ctx context.Context, date time.Time, name string) (AttendanceResult, error) {
	key := s.DateKey(date)
	res := AttendanceResult{Date: key, Subject: name}
	err := s.mutate(ctx, func(c *change) error {
		n, ok := c.history.Remove(key, name)
		if !ok {
			return nil
		}
		res.Count, res.Changed = n, true
		c.log(removedEntry(key, name, n))
		return nil
	})
	if err != nil {
		return AttendanceResult{}, err
	}
	if !res.Changed {
		res.Count = s.count(ctx, key, name)
	}
	return res, nil
}

// SaveAttendance records one class on date for every selected subject. The
// selection is deduplicated. Either all subjects are recorded or none are.
func (s *Service) SaveAttendance(ctx context.Context, date time.Time, names []string) ([]AttendanceResult, error) {
	key := s.DateKey(date)
	if key > s.Today() {
		return nil, fmt.Errorf("%w: %s", ErrFutureDate, key)
	}

	selected := dedupe(names)
	if len(selected) == 0 {
		return nil, ErrNoSelection
	}

	results := make([]AttendanceResult, 0, len(selected))
	err := s.mutate(ctx, func(c *change) error {
		for _, name := range selected {
			if _, ok := c.registry.FindByName(name); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownSubject, name)
			}
		}
		for _, name := range selected {
			n := c.history.Record(key, name)
			results = append(results, AttendanceResult{Date: key, Subject: name, Count: n, Changed: true})
			c.log(recordedEntry(key, name, n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("attendance saved", "date", key, "subjects", len(results))
	return results, nil
}

// MarkDay records one class on date for the filtered subject, or for the
// first subject when the filter is All. A filter naming no existing subject
// changes nothing.
func (s *Service) MarkDay(ctx context.Context, date time.Time, f ledger.Filter) (AttendanceResult, error) {
	key := s.DateKey(date)
	if key > s.Today() {
		return AttendanceResult{}, fmt.Errorf("%w: %s", ErrFutureDate, key)
	}

	res := AttendanceResult{Date: key}
	err := s.mutate(ctx, func(c *change) error {
		name, ok := markTarget(c, f)
		if !ok {
			return nil
		}
		res.Subject = name
		res.Count = c.history.Record(key, name)
		res.Changed = true
		c.log(recordedEntry(key, name, res.Count))
		return nil
	})
	if err != nil {
		return AttendanceResult{}, err
	}
	return res, nil
}

// UnmarkDay takes one class away on date from the filtered subject, or from
// the first subject in display order that has an entry when the filter is
// All. A day with nothing to remove is a no-op.
func (s *Service) UnmarkDay(ctx context.Context, date time.Time, f ledger.Filter) (AttendanceResult, error) {
	key := s.DateKey(date)
	res := AttendanceResult{Date: key}
	err := s.mutate(ctx, func(c *change) error {
		name, ok := unmarkTarget(c, key, f)
		if !ok {
			return nil
		}
		n, _ := c.history.Remove(key, name)
		res.Subject, res.Count, res.Changed = name, n, true
		c.log(removedEntry(key, name, n))
		return nil
	})
	if err != nil {
		return AttendanceResult{}, err
	}
	return res, nil
}

func markTarget(c *change, f ledger.Filter) (string, bool) {
	if f.IsAll() {
		subjects := c.registry.Subjects()
		if len(subjects) == 0 {
			return "", false
		}
		return subjects[0].Name, true
	}
	if _, ok := c.registry.FindByName(f.Subject()); !ok {
		return "", false
	}
	return f.Subject(), true
}

func unmarkTarget(c *change, key string, f ledger.Filter) (string, bool) {
	day := c.history[key]
	if len(day) == 0 {
		return "", false
	}
	if !f.IsAll() {
		if _, ok := c.registry.FindByName(f.Subject()); !ok || day[f.Subject()] == 0 {
			return "", false
		}
		return f.Subject(), true
	}
	for _, subj := range c.registry.Subjects() {
		if day[subj.Name] > 0 {
			return subj.Name, true
		}
	}
	return "", false
}

func (s *Service) count(ctx context.Context, key, name string) int {
	st, err := s.snapshot(ctx)
	if err != nil {
		return 0
	}
	return st.History.Count(key, name)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func recordedEntry(key, name string, n int) activity.Entry {
	return activity.Entry{
		Type:    activity.TypeAttendanceRecorded,
		Subject: name,
		Date:    key,
		Summary: fmt.Sprintf("recorded %s on %s (%d)", name, key, n),
	}
}

func removedEntry(key, name string, n int) activity.Entry {
	return activity.Entry{
		Type:    activity.TypeAttendanceRemoved,
		Subject: name,
		Date:    key,
		Summary: fmt.Sprintf("removed %s on %s (%d left)", name, key, n),
	}
}
