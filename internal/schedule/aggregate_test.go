package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"calendar-planner/internal/model"
)

func TestAgenda(t *testing.T) {
	acts := []model.Activity{
		{ID: 1, Date: "2024-03-01", StartTime: "10:00", EndTime: "11:00"},
		{ID: 2, Date: "2024-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: 3, Date: "2024-03-01", StartTime: "08:00", EndTime: "09:00"},
	}

	today := Agenda(acts, "2024-03-01")
	require.Len(t, today, 2)
	// Snapshot order preserved, no re-sort.
	require.Equal(t, uint(1), today[0].ID)
	require.Equal(t, uint(3), today[1].ID)

	require.Empty(t, Agenda(acts, "2024-03-03"))
	require.Empty(t, Agenda(nil, "2024-03-01"))
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		weekStart time.Weekday
		start     string
		end       string
	}{
		{name: "sunday week from midweek", ref: "2024-01-10", weekStart: time.Sunday, start: "2024-01-07", end: "2024-01-13"},
		{name: "ref on week start", ref: "2024-01-07", weekStart: time.Sunday, start: "2024-01-07", end: "2024-01-13"},
		{name: "ref on week end", ref: "2024-01-13", weekStart: time.Sunday, start: "2024-01-07", end: "2024-01-13"},
		{name: "monday convention", ref: "2024-01-10", weekStart: time.Monday, start: "2024-01-08", end: "2024-01-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := WeekWindow(tt.ref, tt.weekStart)
			require.NoError(t, err)
			require.Equal(t, tt.start, start)
			require.Equal(t, tt.end, end)
		})
	}

	_, _, err := WeekWindow("not-a-date", time.Sunday)
	require.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestSummarizeWeekInclusiveBounds(t *testing.T) {
	acts := []model.Activity{
		{ID: 1, Date: "2024-01-06"},                  // prior Saturday, out
		{ID: 2, Date: "2024-01-07", Completed: true}, // week start, in
		{ID: 3, Date: "2024-01-10"},                  // midweek, in
		{ID: 4, Date: "2024-01-13"},                  // closing Saturday, in
		{ID: 5, Date: "2024-01-14"},                  // next Sunday, out
	}

	sum, err := SummarizeWeek(acts, "2024-01-10", time.Sunday)
	require.NoError(t, err)
	require.Equal(t, "2024-01-07", sum.Start)
	require.Equal(t, "2024-01-13", sum.End)
	require.Equal(t, 3, sum.Total)
	require.Equal(t, 1, sum.Completed)
	require.Equal(t, 2, sum.Pending)
	require.Equal(t, sum.Total, sum.Completed+sum.Pending)
}

func TestSummarizeWeekEmpty(t *testing.T) {
	sum, err := SummarizeWeek(nil, "2024-01-10", time.Sunday)
	require.NoError(t, err)
	require.Zero(t, sum.Total)
	require.Zero(t, sum.Completed)
	require.Zero(t, sum.Pending)
}

func TestUpcoming(t *testing.T) {
	now := Instant{Date: "2024-03-01", Minutes: 14 * 60}
	acts := []model.Activity{
		{ID: 1, Date: "2024-03-01", StartTime: "13:00", EndTime: "14:00"},                  // earlier today, out
		{ID: 2, Date: "2024-03-01", StartTime: "14:00", EndTime: "15:00"},                  // starts exactly now, out
		{ID: 3, Date: "2024-03-01", StartTime: "15:00", EndTime: "16:00"},                  // later today, in
		{ID: 4, Date: "2024-03-02", StartTime: "08:00", EndTime: "09:00"},                  // future date, in
		{ID: 5, Date: "2024-02-29", StartTime: "18:00", EndTime: "19:00"},                  // past date, out
		{ID: 6, Date: "2024-03-02", StartTime: "07:00", EndTime: "08:00", Completed: true}, // done, out
		{ID: 7, Date: "2024-03-05", StartTime: "10:00", EndTime: "11:00"},
	}

	next := Upcoming(acts, now, 5)
	require.Len(t, next, 3)
	require.Equal(t, uint(3), next[0].ID)
	require.Equal(t, uint(4), next[1].ID)
	require.Equal(t, uint(7), next[2].ID)

	for i := 1; i < len(next); i++ {
		prev, cur := next[i-1], next[i]
		require.True(t, prev.Date < cur.Date || (prev.Date == cur.Date && prev.StartTime <= cur.StartTime))
	}
}

func TestUpcomingCap(t *testing.T) {
	now := Instant{Date: "2024-03-01", Minutes: 0}
	var acts []model.Activity
	for i := 0; i < 10; i++ {
		acts = append(acts, model.Activity{
			ID:        uint(i + 1),
			Date:      "2024-03-02",
			StartTime: FromMinutes(9*60 + i*30),
			EndTime:   FromMinutes(10*60 + i*30),
		})
	}

	require.Len(t, Upcoming(acts, now, 5), 5)
	require.Empty(t, Upcoming(nil, now, 5))
}

func TestUpcomingDeterministic(t *testing.T) {
	now := Instant{Date: "2024-03-01", Minutes: 600}
	acts := []model.Activity{
		{ID: 1, Date: "2024-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, Date: "2024-03-01", StartTime: "12:00", EndTime: "13:00"},
	}
	require.Equal(t, Upcoming(acts, now, 5), Upcoming(acts, now, 5))
}

func TestUrgentBacklog(t *testing.T) {
	acts := []model.Activity{
		{ID: 1, Category: "urgent"},
		{ID: 2, Category: "work"},
		{ID: 3, Category: "urgent", Completed: true},
		{ID: 4, Category: "urgent"},
		{ID: 5, Category: "urgent"},
		{ID: 6, Category: "urgent"},
	}

	urgent := UrgentBacklog(acts, "urgent", 3)
	require.Len(t, urgent, 3)
	// Snapshot order, completed excluded, capped.
	require.Equal(t, uint(1), urgent[0].ID)
	require.Equal(t, uint(4), urgent[1].ID)
	require.Equal(t, uint(5), urgent[2].ID)

	require.Empty(t, UrgentBacklog(nil, "urgent", 3))
}
