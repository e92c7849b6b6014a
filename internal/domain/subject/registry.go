package subject

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// DefaultName is the name given to the first subject and to the blank
// replacement of the last removed subject.
const DefaultName = "Subject 1"

// autoNamePattern matches anywhere in a name, so "Subject 5 Lab" counts as 5.
var autoNamePattern = regexp.MustCompile(`Subject (\d+)`)

// Registry is the ordered list of subjects. It is never empty.
type Registry struct {
	subjects []Subject
	newID    func() string
}

// NewRegistry copies subjects into a registry. Subjects without an id get a
// fresh one; an empty list yields a single blank subject.
func NewRegistry(subjects []Subject) *Registry {
	r := &Registry{
		subjects: make([]Subject, 0, len(subjects)),
		newID:    uuid.NewString,
	}
	for _, s := range subjects {
		if s.ID == "" {
			s.ID = r.newID()
		}
		r.subjects = append(r.subjects, s)
	}
	if len(r.subjects) == 0 {
		r.subjects = append(r.subjects, r.blank())
	}
	return r
}

// Subjects returns a copy of the subjects in order.
func (r *Registry) Subjects() []Subject {
	out := make([]Subject, len(r.subjects))
	copy(out, r.subjects)
	return out
}

// Len returns the number of subjects.
func (r *Registry) Len() int {
	return len(r.subjects)
}

// Find returns the subject with the given id.
func (r *Registry) Find(id string) (Subject, bool) {
	if i := r.index(id); i >= 0 {
		return r.subjects[i], true
	}
	return Subject{}, false
}

// FindByName returns the first subject with the given name.
func (r *Registry) FindByName(name string) (Subject, bool) {
	for _, s := range r.subjects {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

// Names returns the set of subject names, the valid history keys.
func (r *Registry) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(r.subjects))
	for _, s := range r.subjects {
		names[s.Name] = struct{}{}
	}
	return names
}

// NextName returns "Subject N" where N is one more than the largest positive
// number found after "Subject " in any name.
func (r *Registry) NextName() string {
	highest := 0
	for _, s := range r.subjects {
		m := autoNamePattern.FindStringSubmatch(s.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("Subject %d", highest+1)
}

// Add appends a new auto-named subject with unset counts.
func (r *Registry) Add() Subject {
	s := Subject{ID: r.newID(), Name: r.NextName()}
	r.subjects = append(r.subjects, s)
	return s
}

// Update sets one field on the subject with the given id and returns the
// subject as it was before and after. ok is false when the id is unknown.
func (r *Registry) Update(id string, field Field, value string) (before, after Subject, ok bool) {
	i := r.index(id)
	if i < 0 {
		return Subject{}, Subject{}, false
	}

	before = r.subjects[i]
	after = before
	switch field {
	case FieldName:
		after.Name = value
	case FieldAttended:
		after.Attended = ParseCount(value)
	case FieldTotal:
		after.Total = ParseCount(value)
	default:
		return before, before, false
	}
	r.subjects[i] = after
	return before, after, true
}

// Remove deletes the subject with the given id. Removing the only subject
// replaces it with a blank one, returned as replacement.
func (r *Registry) Remove(id string) (removed Subject, replacement *Subject, ok bool) {
	i := r.index(id)
	if i < 0 {
		return Subject{}, nil, false
	}

	removed = r.subjects[i]
	if len(r.subjects) == 1 {
		fresh := r.blank()
		r.subjects[0] = fresh
		return removed, &fresh, true
	}

	r.subjects = append(r.subjects[:i], r.subjects[i+1:]...)
	return removed, nil, true
}

func (r *Registry) blank() Subject {
	return Subject{ID: r.newID(), Name: DefaultName}
}

func (r *Registry) index(id string) int {
	for i, s := range r.subjects {
		if s.ID == id {
			return i
		}
	}
	return -1
}
