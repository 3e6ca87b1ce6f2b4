package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"calendar-planner/internal/config"
	"calendar-planner/internal/model"
)

func seedDay(t *testing.T, svc *ActivityService, user *model.User, date string, entries ...ActivityInput) {
	t.Helper()
	for _, in := range entries {
		in.Date = date
		_, err := svc.Create(context.Background(), user, in)
		require.NoError(t, err)
	}
}

func TestDayGridRendersLanes(t *testing.T) {
	repo, user := newTestStore(t)
	categories := model.NewCategorySet(nil)
	activitySvc := NewActivityService(repo, categories)
	agendaSvc := NewAgendaService(repo, categories, config.DefaultSettings())

	seedDay(t, activitySvc, user, "2024-03-01",
		ActivityInput{Title: "Standup", StartTime: "09:00", EndTime: "10:00", Category: "meetings"},
		ActivityInput{Title: "Focus", StartTime: "09:30", EndTime: "10:30", Category: "work"},
		ActivityInput{Title: "Gym", StartTime: "11:00", EndTime: "12:00", Category: "health"},
	)

	text, err := agendaSvc.DayGrid(context.Background(), user, "2024-03-01")
	require.NoError(t, err)

	require.Contains(t, text, "2024-03-01")
	require.Contains(t, text, "<pre>")
	require.Contains(t, text, "Standup")
	require.Contains(t, text, "Focus")
	require.Contains(t, text, "Gym")
	// Overlap forces a second lane: the 09:00 row carries two cell borders.
	require.Contains(t, text, "09:00 |Standup")
}

func TestDayGridEmptyDay(t *testing.T) {
	repo, user := newTestStore(t)
	categories := model.NewCategorySet(nil)
	agendaSvc := NewAgendaService(repo, categories, config.DefaultSettings())

	text, err := agendaSvc.DayGrid(context.Background(), user, "2024-03-01")
	require.NoError(t, err)
	require.Contains(t, text, "nothing scheduled")
	require.NotContains(t, text, "<pre>")
}

func TestWeekOverviewCounts(t *testing.T) {
	repo, user := newTestStore(t)
	categories := model.NewCategorySet(nil)
	activitySvc := NewActivityService(repo, categories)
	agendaSvc := NewAgendaService(repo, categories, config.DefaultSettings())
	ctx := context.Background()

	seedDay(t, activitySvc, user, "2024-01-07", ActivityInput{Title: "Open week", StartTime: "09:00", EndTime: "10:00"})
	seedDay(t, activitySvc, user, "2024-01-13", ActivityInput{Title: "Close week", StartTime: "09:00", EndTime: "10:00"})
	seedDay(t, activitySvc, user, "2024-01-06", ActivityInput{Title: "Prior week", StartTime: "09:00", EndTime: "10:00"})

	text, err := agendaSvc.WeekOverview(ctx, user, "2024-01-10")
	require.NoError(t, err)
	require.Contains(t, text, "2024-01-07 … 2024-01-13")
	require.Contains(t, text, "Σ 2 total")
	require.Contains(t, text, "Open week")
	require.Contains(t, text, "Close week")
	require.NotContains(t, text, "Prior week")
}

func TestDailyReportSections(t *testing.T) {
	repo, user := newTestStore(t)
	categories := model.NewCategorySet(nil)
	activitySvc := NewActivityService(repo, categories)
	agendaSvc := NewAgendaService(repo, categories, config.DefaultSettings())
	ctx := context.Background()

	now := time.Now()
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	seedDay(t, activitySvc, user, today, ActivityInput{Title: "Morning run", StartTime: "07:00", EndTime: "08:00", Category: "health"})
	seedDay(t, activitySvc, user, tomorrow,
		ActivityInput{Title: "Pay invoice", StartTime: "10:00", EndTime: "10:30", Category: "urgent"},
	)

	text, err := agendaSvc.DailyReport(ctx, user, now)
	require.NoError(t, err)
	require.Contains(t, text, "Daily agenda")
	require.Contains(t, text, "Today")
	require.Contains(t, text, "Morning run")
	require.Contains(t, text, "Coming up")
	require.Contains(t, text, "Pay invoice")
	require.Contains(t, text, "Urgent backlog")
	require.Contains(t, text, "Week:")
}

func TestUpcomingDigestEmpty(t *testing.T) {
	repo, user := newTestStore(t)
	categories := model.NewCategorySet(nil)
	agendaSvc := NewAgendaService(repo, categories, config.DefaultSettings())

	text, err := agendaSvc.UpcomingDigest(context.Background(), user, time.Now())
	require.NoError(t, err)
	require.Contains(t, text, "nothing ahead")
}
