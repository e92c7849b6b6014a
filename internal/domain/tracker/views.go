package tracker

import (
	"context"

	"github.com/rpggio/attendance/internal/domain/calendar"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/stats"
)

// Overview returns overall and per-subject statistics.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}

	out := Overview{
		Overall:  stats.OverallStats(st.Subjects),
		Subjects: make([]stats.SubjectStats, 0, len(st.Subjects)),
	}
	for _, subj := range st.Subjects {
		out.Subjects = append(out.Subjects, stats.ForSubject(subj))
	}
	return out, nil
}

// Heatmap renders the one-year window ending today.
func (s *Service) Heatmap(ctx context.Context, f ledger.Filter) (calendar.Heatmap, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return calendar.Heatmap{}, err
	}
	return calendar.Build(st.History, f, s.Today())
}

// CurrentStreak counts consecutive days with attendance ending today.
func (s *Service) CurrentStreak(ctx context.Context, f ledger.Filter) (int, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return st.History.CurrentStreak(f, s.Today())
}

// History returns a copy of the attendance ledger.
func (s *Service) History(ctx context.Context) (ledger.Ledger, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return st.History.Clone(), nil
}

// DayCounts returns the per-subject counts recorded on a day.
func (s *Service) DayCounts(ctx context.Context, key string) (ledger.Day, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	day := st.History[key]
	out := make(ledger.Day, len(day))
	for name, n := range day {
		out[name] = n
	}
	return out, nil
}
