package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStudyAnalytics_Empty(t *testing.T) {
	store := openTestStore(t)
	id := mustCreateUser(t, store, "alice")

	a, err := store.GetStudyAnalytics(t.Context(), id)
	require.NoError(t, err)

	assert.Empty(t, a.Weekly)
	assert.Empty(t, a.Daily)
	assert.Empty(t, a.Subjects)
	assert.Empty(t, a.PersonalRecords)
	assert.Nil(t, a.BestDay)
	assert.Zero(t, a.Lifetime.Sessions)
	assert.Zero(t, a.Lifetime.TotalMinutes)
	assert.Nil(t, a.Lifetime.AvgMinutes)
	assert.Nil(t, a.Lifetime.LongestSession)
	assert.Nil(t, a.Lifetime.BestFocus)
}

func TestGetStudyAnalytics_Aggregates(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")
	other := mustCreateUser(t, store, "bob")

	at := func(month time.Month, day int) time.Time {
		return time.Date(2026, month, day, 9, 0, 0, 0, time.UTC)
	}
	inputs := []SessionInput{
		// This week (Monday 12 October).
		{UserID: id, StartTime: at(time.October, 14), DurationMinutes: 30, FocusRating: intPtr(4), SubjectTag: "math"},
		{UserID: id, StartTime: at(time.October, 12), DurationMinutes: 60, FocusRating: intPtr(2), SubjectTag: "physics"},
		// Previous week.
		{UserID: id, StartTime: at(time.October, 8), DurationMinutes: 20, SubjectTag: "math"},
		// Outside both windows.
		{UserID: id, StartTime: at(time.September, 9), DurationMinutes: 45},
		{UserID: other, StartTime: at(time.October, 14), DurationMinutes: 90},
	}
	for _, in := range inputs {
		_, err := store.RecordStudySession(ctx, in)
		require.NoError(t, err)
	}

	a, err := store.GetStudyAnalytics(ctx, id)
	require.NoError(t, err)

	require.Len(t, a.Weekly, 2)
	year, week := at(time.October, 12).ISOWeek()
	assert.Equal(t, year, a.Weekly[0].Year)
	assert.Equal(t, week, a.Weekly[0].Week)
	assert.Equal(t, 90, a.Weekly[0].TotalMinutes)
	assert.Equal(t, 2, a.Weekly[0].Sessions)
	require.NotNil(t, a.Weekly[0].AvgFocus)
	assert.InDelta(t, 3.0, *a.Weekly[0].AvgFocus, 0.001)
	assert.Equal(t, week-1, a.Weekly[1].Week)
	assert.Equal(t, 20, a.Weekly[1].TotalMinutes)
	assert.Nil(t, a.Weekly[1].AvgFocus)

	require.Len(t, a.Daily, 3)
	assert.Equal(t, 14, a.Daily[0].Start.Day())
	assert.Equal(t, 30, a.Daily[0].TotalMinutes)
	assert.Equal(t, 12, a.Daily[1].Start.Day())
	assert.Equal(t, 8, a.Daily[2].Start.Day())

	assert.Equal(t, int64(4), a.Lifetime.Sessions)
	assert.Equal(t, int64(155), a.Lifetime.TotalMinutes)
	require.NotNil(t, a.Lifetime.AvgMinutes)
	assert.InDelta(t, 38.75, *a.Lifetime.AvgMinutes, 0.001)
	require.NotNil(t, a.Lifetime.LongestSession)
	assert.Equal(t, int64(60), *a.Lifetime.LongestSession)
	require.NotNil(t, a.Lifetime.BestFocus)
	assert.Equal(t, int64(4), *a.Lifetime.BestFocus)
	require.NotNil(t, a.Lifetime.AvgFocus)
	assert.InDelta(t, 3.0, *a.Lifetime.AvgFocus, 0.001)

	require.NotNil(t, a.BestDay)
	assert.Equal(t, time.Monday, a.BestDay.Weekday)
	assert.InDelta(t, 60.0, a.BestDay.AvgMinutes, 0.001)

	require.Len(t, a.Subjects, 2)
	assert.Equal(t, "physics", a.Subjects[0].Subject)
	assert.Equal(t, int64(60), a.Subjects[0].TotalMinutes)
	assert.Equal(t, "math", a.Subjects[1].Subject)
	assert.Equal(t, int64(50), a.Subjects[1].TotalMinutes)
	assert.Equal(t, int64(2), a.Subjects[1].Sessions)

	require.Len(t, a.PersonalRecords, 2)
	assert.Equal(t, RecordBestFocus, a.PersonalRecords[0].RecordType)
	assert.Equal(t, 4.0, a.PersonalRecords[0].Value)
	assert.Equal(t, RecordLongestSession, a.PersonalRecords[1].RecordType)
	assert.Equal(t, 60.0, a.PersonalRecords[1].Value)
}

func TestGetStudyAnalytics_TopFiveSubjects(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	for i, subject := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := store.RecordStudySession(ctx, SessionInput{UserID: id, DurationMinutes: 10 * (i + 1), SubjectTag: subject})
		require.NoError(t, err)
	}

	a, err := store.GetStudyAnalytics(ctx, id)
	require.NoError(t, err)
	require.Len(t, a.Subjects, 5)
	assert.Equal(t, "f", a.Subjects[0].Subject)
	assert.Equal(t, "b", a.Subjects[4].Subject)
}

func TestStartOfISOWeek(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 23, 0, 0, 0, time.UTC)
	monday := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)

	assert.True(t, startOfISOWeek(sunday).Equal(monday))
	assert.True(t, startOfISOWeek(monday).Equal(monday))
}
