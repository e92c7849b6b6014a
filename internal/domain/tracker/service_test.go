package tracker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/stats"
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/rpggio/attendance/internal/domain/tracker"
	"github.com/rpggio/attendance/internal/repository"
	"github.com/rpggio/attendance/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

const twoSubjects = `[
	{"id":"m","name":"Math","attended":30,"total":40},
	{"id":"p","name":"Physics","attended":"","total":""}
]`

type activityStub struct {
	entries []activity.Entry
}

func (s *activityStub) LogActivity(_ context.Context, entry *activity.Entry) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *activityStub) types() []activity.Type {
	out := make([]activity.Type, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Type)
	}
	return out
}

func mockDocuments(stored map[string]string, putErr error) *mocks.DocumentRepository {
	docs := &mocks.DocumentRepository{}
	for _, key := range []string{tracker.SubjectsKey, tracker.HistoryKey} {
		if body, ok := stored[key]; ok {
			docs.On("Get", mock.Anything, key).Return([]byte(body), nil)
		} else {
			docs.On("Get", mock.Anything, key).Return(nil, repository.ErrNotFound)
		}
	}
	docs.On("PutAll", mock.Anything, mock.Anything).Return(putErr)
	return docs
}

func newService(docs *mocks.DocumentRepository, log *activityStub, opts tracker.Options) *tracker.Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	if log == nil {
		return tracker.NewService(docs, nil, nil, opts)
	}
	return tracker.NewService(docs, log, nil, opts)
}

func lastSaved(t *testing.T, docs *mocks.DocumentRepository) ([]subject.Subject, ledger.Ledger) {
	t.Helper()
	var last map[string][]byte
	for _, call := range docs.Calls {
		if call.Method == "PutAll" {
			last = call.Arguments.Get(1).(map[string][]byte)
		}
	}
	require.NotNil(t, last, "nothing was saved")

	var subjects []subject.Subject
	require.NoError(t, json.Unmarshal(last[tracker.SubjectsKey], &subjects))
	var history ledger.Ledger
	require.NoError(t, json.Unmarshal(last[tracker.HistoryKey], &history))
	return subjects, history
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestService_FreshStart(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(nil, nil)
	svc := newService(docs, nil, tracker.Options{})

	subjects, err := svc.Subjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, subject.DefaultName, subjects[0].Name)
	require.NotEmpty(t, subjects[0].ID)
	require.False(t, subjects[0].Attended.IsSet())

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Empty(t, history)

	docs.AssertNotCalled(t, "PutAll", mock.Anything, mock.Anything)
}

func TestService_LoadLegacyDocuments(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: `[{"id":1700000000000,"name":"Math","attended":30,"total":40}]`,
		tracker.HistoryKey:  `{"2024-03-09":{"Math":1,"Ghost":2},"2024-03-08":{"Math":0}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	subjects, err := svc.Subjects(ctx)
	require.NoError(t, err)
	require.Equal(t, "1700000000000", subjects[0].ID)
	require.Equal(t, 30, subjects[0].Attended.Int())

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Equal(t, ledger.Ledger{"2024-03-09": {"Math": 1}}, history)
}

func TestService_MalformedDocumentsFallBack(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: `{not json`,
		tracker.HistoryKey:  `{"2024-03-09":{"Subject 1":1}}`,
	}, nil)
	log := &activityStub{}
	svc := newService(docs, log, tracker.Options{})

	require.NoError(t, svc.Load(ctx))

	subjects, err := svc.Subjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, subject.DefaultName, subjects[0].Name)
	require.Equal(t, []activity.Type{activity.TypeStateReset}, log.types())

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, history.Count("2024-03-09", subject.DefaultName))
}

func TestService_LoadError(t *testing.T) {
	docs := &mocks.DocumentRepository{}
	docs.On("Get", mock.Anything, tracker.SubjectsKey).Return(nil, errors.New("disk gone"))
	svc := newService(docs, nil, tracker.Options{})

	_, err := svc.Subjects(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk gone")
}

func TestService_AddSubject(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	log := &activityStub{}
	svc := newService(docs, log, tracker.Options{})

	added, err := svc.AddSubject(ctx)
	require.NoError(t, err)
	require.Equal(t, "Subject 3", added.Name)
	require.False(t, added.Total.IsSet())

	saved, _ := lastSaved(t, docs)
	require.Len(t, saved, 3)
	require.Equal(t, added, saved[2])
	require.Equal(t, []activity.Type{activity.TypeSubjectAdded}, log.types())
}

func TestService_UpdateCounts(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.UpdateSubject(ctx, tracker.UpdateRequest{ID: "p", Field: subject.FieldTotal, Value: "12.9"})
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, 12, res.Subject.Total.Int())

	res, err = svc.UpdateSubject(ctx, tracker.UpdateRequest{ID: "p", Field: subject.FieldAttended, Value: "-3"})
	require.NoError(t, err)
	require.False(t, res.Subject.Attended.IsSet())

	saved, _ := lastSaved(t, docs)
	require.Equal(t, 12, saved[1].Total.Int())
}

func TestService_UpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.UpdateSubject(ctx, tracker.UpdateRequest{ID: "nope", Field: subject.FieldName, Value: "X"})
	require.NoError(t, err)
	require.False(t, res.Found)
	docs.AssertNotCalled(t, "PutAll", mock.Anything, mock.Anything)
}

func TestService_UpdateInvalidField(t *testing.T) {
	svc := newService(mockDocuments(nil, nil), nil, tracker.Options{})

	_, err := svc.UpdateSubject(context.Background(), tracker.UpdateRequest{ID: "m", Field: "color", Value: "red"})
	require.ErrorIs(t, err, subject.ErrInvalidField)
}

func TestService_RenameMigratesHistory(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: twoSubjects,
		tracker.HistoryKey:  `{"2024-03-09":{"Math":2,"Physics":1},"2024-03-08":{"Math":1}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.UpdateSubject(ctx, tracker.UpdateRequest{ID: "m", Field: subject.FieldName, Value: "Calculus"})
	require.NoError(t, err)
	require.Equal(t, 2, res.MigratedDays)

	_, history := lastSaved(t, docs)
	require.Equal(t, ledger.Ledger{
		"2024-03-09": {"Calculus": 2, "Physics": 1},
		"2024-03-08": {"Calculus": 1},
	}, history)
}

func TestService_RenameDropPolicy(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: twoSubjects,
		tracker.HistoryKey:  `{"2024-03-09":{"Math":2,"Physics":1},"2024-03-08":{"Math":1}}`,
	}, nil)
	log := &activityStub{}
	svc := newService(docs, log, tracker.Options{RenamePolicy: tracker.RenameDrop})

	_, err := svc.UpdateSubject(ctx, tracker.UpdateRequest{ID: "m", Field: subject.FieldName, Value: "Calculus"})
	require.NoError(t, err)

	_, history := lastSaved(t, docs)
	require.Equal(t, ledger.Ledger{"2024-03-09": {"Physics": 1}}, history)
	require.Equal(t, []activity.Type{activity.TypeSubjectUpdated, activity.TypeHistoryPruned}, log.types())
}

func TestService_RenameKeepsSharedHistory(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: `[{"id":"a","name":"Math","attended":"","total":""},{"id":"b","name":"Math","attended":"","total":""}]`,
		tracker.HistoryKey:  `{"2024-03-09":{"Math":1}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.UpdateSubject(ctx, tracker.UpdateRequest{ID: "a", Field: subject.FieldName, Value: "Algebra"})
	require.NoError(t, err)
	require.Equal(t, 0, res.MigratedDays)

	_, history := lastSaved(t, docs)
	require.Equal(t, ledger.Ledger{"2024-03-09": {"Math": 1}}, history)
}

func TestService_RemoveSubjectDropsHistory(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: twoSubjects,
		tracker.HistoryKey:  `{"2024-03-09":{"Math":2,"Physics":1},"2024-03-08":{"Math":1}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.RemoveSubject(ctx, "m")
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Nil(t, res.Replacement)
	require.Equal(t, 2, res.DroppedDays)

	subjects, history := lastSaved(t, docs)
	require.Len(t, subjects, 1)
	require.Equal(t, "Physics", subjects[0].Name)
	require.Equal(t, ledger.Ledger{"2024-03-09": {"Physics": 1}}, history)
}

func TestService_RemoveLastSubjectLeavesDefault(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: `[{"id":"m","name":"Math","attended":3,"total":4}]`,
		tracker.HistoryKey:  `{"2024-03-09":{"Math":1}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.RemoveSubject(ctx, "m")
	require.NoError(t, err)
	require.NotNil(t, res.Replacement)
	require.Equal(t, subject.DefaultName, res.Replacement.Name)

	subjects, history := lastSaved(t, docs)
	require.Len(t, subjects, 1)
	require.Equal(t, subject.DefaultName, subjects[0].Name)
	require.NotEqual(t, "m", subjects[0].ID)
	require.Empty(t, history)
}

func TestService_RemoveUnknownIsNoop(t *testing.T) {
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.RemoveSubject(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, res.Found)
	docs.AssertNotCalled(t, "PutAll", mock.Anything, mock.Anything)
}

func TestService_SaveAttendance(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	results, err := svc.SaveAttendance(ctx, day(2024, 3, 9), []string{"Math", "Physics", "Math"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = svc.SaveAttendance(ctx, day(2024, 3, 9), []string{"Math"})
	require.NoError(t, err)
	require.Equal(t, 2, results[0].Count)

	_, history := lastSaved(t, docs)
	require.Equal(t, ledger.Ledger{"2024-03-09": {"Math": 2, "Physics": 1}}, history)
}

func TestService_SaveAttendanceRejects(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	_, err := svc.SaveAttendance(ctx, day(2024, 3, 11), []string{"Math"})
	require.ErrorIs(t, err, tracker.ErrFutureDate)

	_, err = svc.SaveAttendance(ctx, day(2024, 3, 9), nil)
	require.ErrorIs(t, err, tracker.ErrNoSelection)

	_, err = svc.SaveAttendance(ctx, day(2024, 3, 9), []string{"Math", "Ghost"})
	require.ErrorIs(t, err, tracker.ErrUnknownSubject)

	docs.AssertNotCalled(t, "PutAll", mock.Anything, mock.Anything)
	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestService_RecordAndRemoveAttendance(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	// Direct recording accepts future dates.
	res, err := svc.RecordAttendance(ctx, day(2024, 4, 1), "Physics")
	require.NoError(t, err)
	require.Equal(t, "2024-04-01", res.Date)
	require.Equal(t, 1, res.Count)

	_, err = svc.RecordAttendance(ctx, day(2024, 4, 1), "Ghost")
	require.ErrorIs(t, err, tracker.ErrUnknownSubject)

	res, err = svc.RemoveAttendance(ctx, day(2024, 4, 1), "Physics")
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, 0, res.Count)

	res, err = svc.RemoveAttendance(ctx, day(2024, 4, 1), "Physics")
	require.NoError(t, err)
	require.False(t, res.Changed)

	_, history := lastSaved(t, docs)
	require.Empty(t, history)
	docs.AssertNumberOfCalls(t, "PutAll", 2)
}

func TestService_MarkAndUnmarkDay(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: twoSubjects,
		tracker.HistoryKey:  `{"2024-03-05":{"Physics":1}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	res, err := svc.MarkDay(ctx, day(2024, 3, 5), ledger.All())
	require.NoError(t, err)
	require.Equal(t, "Math", res.Subject)

	res, err = svc.MarkDay(ctx, day(2024, 3, 5), ledger.Only("Physics"))
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)

	res, err = svc.MarkDay(ctx, day(2024, 3, 5), ledger.Only("Ghost"))
	require.NoError(t, err)
	require.False(t, res.Changed)

	_, err = svc.MarkDay(ctx, day(2024, 3, 11), ledger.All())
	require.ErrorIs(t, err, tracker.ErrFutureDate)

	res, err = svc.UnmarkDay(ctx, day(2024, 3, 5), ledger.All())
	require.NoError(t, err)
	require.Equal(t, "Math", res.Subject)

	res, err = svc.UnmarkDay(ctx, day(2024, 3, 5), ledger.All())
	require.NoError(t, err)
	require.Equal(t, "Physics", res.Subject)
	require.Equal(t, 1, res.Count)

	res, err = svc.UnmarkDay(ctx, day(2024, 3, 6), ledger.All())
	require.NoError(t, err)
	require.False(t, res.Changed)

	counts, err := svc.DayCounts(ctx, "2024-03-05")
	require.NoError(t, err)
	require.Equal(t, ledger.Day{"Physics": 1}, counts)
}

func TestService_PersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, errors.New("read-only"))
	log := &activityStub{}
	svc := newService(docs, log, tracker.Options{})

	_, err := svc.AddSubject(ctx)
	require.Error(t, err)

	subjects, err := svc.Subjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Empty(t, log.entries)
}

func TestService_Overview(t *testing.T) {
	docs := mockDocuments(map[string]string{tracker.SubjectsKey: twoSubjects}, nil)
	svc := newService(docs, nil, tracker.Options{})

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, stats.Overall{Attended: 30, Total: 40, Percentage: 75, Status: stats.StatusSafe}, overview.Overall)
	require.Len(t, overview.Subjects, 2)
	require.Equal(t, stats.StatusSafe, overview.Subjects[0].Status)
	require.Equal(t, stats.StatusNeutral, overview.Subjects[1].Status)
}

func TestService_HeatmapAndStreak(t *testing.T) {
	ctx := context.Background()
	docs := mockDocuments(map[string]string{
		tracker.SubjectsKey: twoSubjects,
		tracker.HistoryKey:  `{"2024-03-10":{"Math":1},"2024-03-09":{"Physics":2},"2024-03-07":{"Math":1}}`,
	}, nil)
	svc := newService(docs, nil, tracker.Options{})

	require.Equal(t, "2024-03-10", svc.Today())

	streak, err := svc.CurrentStreak(ctx, ledger.All())
	require.NoError(t, err)
	require.Equal(t, 2, streak)

	streak, err = svc.CurrentStreak(ctx, ledger.Only("Math"))
	require.NoError(t, err)
	require.Equal(t, 1, streak)

	hm, err := svc.Heatmap(ctx, ledger.Only("Math"))
	require.NoError(t, err)
	require.Equal(t, "2024-03-10", hm.To)
	require.Equal(t, 2, hm.TotalContributions)
}

func TestService_TodayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	svc := newService(mockDocuments(nil, nil), nil, tracker.Options{
		Location: tokyo,
		Now:      func() time.Time { return time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC) },
	})
	require.Equal(t, "2024-03-11", svc.Today())

	d, err := svc.ParseDate("")
	require.NoError(t, err)
	require.Equal(t, "2024-03-11", svc.DateKey(d))
}

func TestParseRenamePolicy(t *testing.T) {
	p, err := tracker.ParseRenamePolicy("")
	require.NoError(t, err)
	require.Equal(t, tracker.RenameMigrate, p)

	p, err = tracker.ParseRenamePolicy("drop")
	require.NoError(t, err)
	require.Equal(t, tracker.RenameDrop, p)

	_, err = tracker.ParseRenamePolicy("archive")
	require.ErrorIs(t, err, tracker.ErrInvalidPolicy)
}
