package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/rpggio/attendance/internal/repository"
)

// Service owns the subject registry and the attendance ledger. Every change
// is applied to a copy, persisted, and only then made current.
type Service struct {
	docs     DocumentRepository
	activity ActivityLogger
	logger   *slog.Logger
	opts     Options

	mu    sync.Mutex
	state *State
}

// NewService creates a tracker service. activityLog may be nil.
func NewService(docs DocumentRepository, activityLog ActivityLogger, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		docs:     docs,
		activity: activityLog,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// Load reads the persisted documents. Missing documents yield defaults;
// malformed ones are logged and replaced by defaults.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.loadLocked(ctx)
	return err
}

// Save persists the current state.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	return s.persist(ctx, st)
}

func (s *Service) loadLocked(ctx context.Context) (*State, error) {
	if s.state != nil {
		return s.state, nil
	}

	subjects, subjectsOK, err := s.loadSubjects(ctx)
	if err != nil {
		return nil, err
	}
	history, historyOK, err := s.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	reg := subject.NewRegistry(subjects)
	if n := history.Normalize(); n > 0 {
		s.logger.Warn("dropped non-positive history counts", "count", n)
	}
	if n := history.PruneOrphans(reg.Names()); n > 0 {
		s.logger.Info("pruned orphaned history entries", "count", n)
	}

	s.state = &State{Subjects: reg.Subjects(), History: history}
	if !subjectsOK || !historyOK {
		s.logActivity(ctx, &activity.Entry{
			Type:    activity.TypeStateReset,
			Summary: "malformed stored state replaced with defaults",
		})
	}
	return s.state, nil
}

func (s *Service) loadSubjects(ctx context.Context) ([]subject.Subject, bool, error) {
	body, err := s.readDocument(ctx, SubjectsKey)
	if err != nil || body == nil {
		return nil, true, err
	}
	var subjects []subject.Subject
	if err := json.Unmarshal(body, &subjects); err != nil {
		s.logger.Warn("discarding malformed document", "key", SubjectsKey, "error", err)
		return nil, false, nil
	}
	return subjects, true, nil
}

func (s *Service) loadHistory(ctx context.Context) (ledger.Ledger, bool, error) {
	body, err := s.readDocument(ctx, HistoryKey)
	if err != nil || body == nil {
		return ledger.New(), true, err
	}
	var history ledger.Ledger
	if err := json.Unmarshal(body, &history); err != nil {
		s.logger.Warn("discarding malformed document", "key", HistoryKey, "error", err)
		return ledger.New(), false, nil
	}
	if history == nil {
		history = ledger.New()
	}
	return history, true, nil
}

func (s *Service) readDocument(ctx context.Context, key string) ([]byte, error) {
	body, err := s.docs.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return body, nil
}

func (s *Service) persist(ctx context.Context, st *State) error {
	subjectsJSON, err := json.Marshal(st.Subjects)
	if err != nil {
		return fmt.Errorf("encoding subjects: %w", err)
	}
	historyJSON, err := json.Marshal(st.History)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := s.docs.PutAll(ctx, map[string][]byte{
		SubjectsKey: subjectsJSON,
		HistoryKey:  historyJSON,
	}); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// change is the working copy handed to a mutation.
type change struct {
	registry *subject.Registry
	history  ledger.Ledger
	events   []activity.Entry
}

func (c *change) log(e activity.Entry) {
	c.events = append(c.events, e)
}

// mutate applies fn to a copy of the state. A mutation that logs no event
// changed nothing and is not persisted. Orphaned history is pruned before
// the copy is saved and swapped in.
func (s *Service) mutate(ctx context.Context, fn func(c *change) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	c := &change{
		registry: subject.NewRegistry(current.Subjects),
		history:  current.History.Clone(),
	}
	if err := fn(c); err != nil {
		return err
	}
	if len(c.events) == 0 {
		return nil
	}

	if n := c.history.PruneOrphans(c.registry.Names()); n > 0 {
		c.log(activity.Entry{
			Type:    activity.TypeHistoryPruned,
			Summary: fmt.Sprintf("pruned %d orphaned history entries", n),
		})
	}

	next := &State{Subjects: c.registry.Subjects(), History: c.history}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.state = next

	for i := range c.events {
		s.logActivity(ctx, &c.events[i])
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) logActivity(ctx context.Context, entry *activity.Entry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.Type, "error", err)
	}
}
