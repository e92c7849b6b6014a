package tracker

import (
	"context"
	"fmt"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/subject"
)

// AddSubject appends a new auto-named subject with unset counts.
func (s *Service) AddSubject(ctx context.Context) (subject.Subject, error) {
	var added subject.Subject
	err := s.mutate(ctx, func(c *change) error {
		added = c.registry.Add()
		c.log(activity.Entry{
			Type:      activity.TypeSubjectAdded,
			SubjectID: added.ID,
			Subject:   added.Name,
			Summary:   fmt.Sprintf("added %s", added.Name),
		})
		return nil
	})
	if err != nil {
		return subject.Subject{}, err
	}
	s.logger.Debug("subject added", "id", added.ID, "name", added.Name)
	return added, nil
}

// UpdateSubject sets one field. An unknown id is a no-op reported through
// Found. Renaming moves history to the new name under RenameMigrate unless
// another subject still carries the old name.
func (s *Service) UpdateSubject(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	if _, err := subject.ParseField(string(req.Field)); err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	err := s.mutate(ctx, func(c *change) error {
		before, after, ok := c.registry.Update(req.ID, req.Field, req.Value)
		if !ok {
			return nil
		}
		res.Subject, res.Found = after, true
		if before == after {
			return nil
		}

		if req.Field == subject.FieldName && s.opts.RenamePolicy == RenameMigrate {
			if _, shared := c.registry.Names()[before.Name]; !shared {
				res.MigratedDays = c.history.RenameSubject(before.Name, after.Name)
			}
		}

		c.log(activity.Entry{
			Type:      activity.TypeSubjectUpdated,
			SubjectID: after.ID,
			Subject:   after.Name,
			Summary:   updateSummary(req.Field, before, after),
		})
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return res, nil
}

func updateSummary(field subject.Field, before, after subject.Subject) string {
	switch field {
	case subject.FieldName:
		return fmt.Sprintf("renamed %q to %q", before.Name, after.Name)
	case subject.FieldAttended:
		return fmt.Sprintf("set attended for %s to %q", after.Name, after.Attended.String())
	default:
		return fmt.Sprintf("set total for %s to %q", after.Name, after.Total.String())
	}
}

// RemoveSubject deletes a subject and its history. Removing the last subject
// leaves a fresh default one in its place.
func (s *Service) RemoveSubject(ctx context.Context, id string) (RemoveResult, error) {
	var res RemoveResult
	err := s.mutate(ctx, func(c *change) error {
		removed, replacement, ok := c.registry.Remove(id)
		if !ok {
			return nil
		}
		res = RemoveResult{Removed: removed, Replacement: replacement, Found: true}
		res.DroppedDays = c.history.DropSubject(removed.Name)

		c.log(activity.Entry{
			Type:      activity.TypeSubjectRemoved,
			SubjectID: removed.ID,
			Subject:   removed.Name,
			Summary:   fmt.Sprintf("removed %s", removed.Name),
		})
		return nil
	})
	if err != nil {
		return RemoveResult{}, err
	}
	if res.Found {
		s.logger.Debug("subject removed", "id", id, "dropped_days", res.DroppedDays)
	}
	return res, nil
}

// Subjects returns the subjects in display order.
func (s *Service) Subjects(ctx context.Context) ([]subject.Subject, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]subject.Subject(nil), st.Subjects...), nil
}
