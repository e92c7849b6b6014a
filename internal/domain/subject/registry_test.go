package subject_test

import (
	"testing"

	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_EmptyYieldsDefault(t *testing.T) {
	reg := subject.NewRegistry(nil)

	subjects := reg.Subjects()
	require.Len(t, subjects, 1)
	require.Equal(t, subject.DefaultName, subjects[0].Name)
	require.NotEmpty(t, subjects[0].ID)
	require.False(t, subjects[0].Attended.IsSet())
	require.False(t, subjects[0].Total.IsSet())
}

func TestNewRegistry_FillsMissingIDs(t *testing.T) {
	reg := subject.NewRegistry([]subject.Subject{{Name: "Math"}, {ID: "keep", Name: "Physics"}})

	subjects := reg.Subjects()
	require.NotEmpty(t, subjects[0].ID)
	require.Equal(t, "keep", subjects[1].ID)
}

func TestRegistry_AddNaming(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "after default", existing: []string{"Subject 1"}, want: "Subject 2"},
		{name: "gap uses max", existing: []string{"Subject 1", "Subject 7", "Subject 3"}, want: "Subject 8"},
		{name: "custom names ignored", existing: []string{"Math", "Physics"}, want: "Subject 1"},
		{name: "mixed", existing: []string{"Math", "Subject 2"}, want: "Subject 3"},
		{name: "embedded number counts", existing: []string{"My Subject 9 notes", "Subject 1"}, want: "Subject 10"},
		{name: "suffixed name counts", existing: []string{"Subject 1", "Subject 5 Lab"}, want: "Subject 6"},
		{name: "lowercase ignored", existing: []string{"subject 4", "Subject 1"}, want: "Subject 2"},
		{name: "zero only", existing: []string{"Subject 0"}, want: "Subject 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subjects := make([]subject.Subject, 0, len(tt.existing))
			for _, name := range tt.existing {
				subjects = append(subjects, subject.Subject{Name: name})
			}
			reg := subject.NewRegistry(subjects)

			added := reg.Add()
			require.Equal(t, tt.want, added.Name)
			require.NotEmpty(t, added.ID)
			require.False(t, added.Attended.IsSet())
			require.Equal(t, len(tt.existing)+1, reg.Len())

			last := reg.Subjects()[reg.Len()-1]
			require.Equal(t, added, last)
		})
	}
}

func TestRegistry_AddUniqueIDs(t *testing.T) {
	reg := subject.NewRegistry(nil)
	a := reg.Add()
	b := reg.Add()
	require.NotEqual(t, a.ID, b.ID)
	require.NotEqual(t, reg.Subjects()[0].ID, a.ID)
}

func TestRegistry_Update(t *testing.T) {
	reg := subject.NewRegistry([]subject.Subject{{ID: "s1", Name: "Math"}})

	before, after, ok := reg.Update("s1", subject.FieldName, "Algebra")
	require.True(t, ok)
	require.Equal(t, "Math", before.Name)
	require.Equal(t, "Algebra", after.Name)

	_, after, ok = reg.Update("s1", subject.FieldAttended, "12")
	require.True(t, ok)
	require.Equal(t, 12, after.Attended.Int())

	_, after, ok = reg.Update("s1", subject.FieldTotal, "abc")
	require.True(t, ok)
	require.False(t, after.Total.IsSet())
	require.Equal(t, 0, after.Total.Int())

	got, found := reg.Find("s1")
	require.True(t, found)
	require.Equal(t, "Algebra", got.Name)
	require.Equal(t, 12, got.Attended.Int())
}

func TestRegistry_UpdateUnknownIDIsNoop(t *testing.T) {
	reg := subject.NewRegistry([]subject.Subject{{ID: "s1", Name: "Math"}})

	_, _, ok := reg.Update("missing", subject.FieldName, "Physics")
	require.False(t, ok)
	require.Equal(t, []subject.Subject{{ID: "s1", Name: "Math"}}, reg.Subjects())
}

func TestRegistry_RemoveLastReplacesWithBlank(t *testing.T) {
	reg := subject.NewRegistry([]subject.Subject{{
		ID:       "s1",
		Name:     "Math",
		Attended: subject.CountOf(3),
		Total:    subject.CountOf(4),
	}})

	removed, replacement, ok := reg.Remove("s1")
	require.True(t, ok)
	require.Equal(t, "Math", removed.Name)
	require.NotNil(t, replacement)
	require.Equal(t, 1, reg.Len())

	fresh := reg.Subjects()[0]
	require.Equal(t, *replacement, fresh)
	require.Equal(t, subject.DefaultName, fresh.Name)
	require.NotEqual(t, "s1", fresh.ID)
	require.False(t, fresh.Attended.IsSet())
	require.False(t, fresh.Total.IsSet())
}

func TestRegistry_RemoveKeepsOrder(t *testing.T) {
	reg := subject.NewRegistry([]subject.Subject{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	})

	removed, replacement, ok := reg.Remove("b")
	require.True(t, ok)
	require.Nil(t, replacement)
	require.Equal(t, "B", removed.Name)
	require.Equal(t, []subject.Subject{{ID: "a", Name: "A"}, {ID: "c", Name: "C"}}, reg.Subjects())

	_, _, ok = reg.Remove("b")
	require.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	reg := subject.NewRegistry([]subject.Subject{{ID: "a", Name: "Math"}, {ID: "b", Name: "Physics"}})

	names := reg.Names()
	require.Len(t, names, 2)
	require.Contains(t, names, "Math")
	require.Contains(t, names, "Physics")

	s, ok := reg.FindByName("Physics")
	require.True(t, ok)
	require.Equal(t, "b", s.ID)
}

func TestParseField(t *testing.T) {
	f, err := subject.ParseField("attended")
	require.NoError(t, err)
	require.Equal(t, subject.FieldAttended, f)

	_, err = subject.ParseField("id")
	require.ErrorIs(t, err, subject.ErrInvalidField)
}
