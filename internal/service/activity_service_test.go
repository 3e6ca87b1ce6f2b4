package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"calendar-planner/internal/model"
	"calendar-planner/internal/repository"
)

func newTestStore(t *testing.T) (*repository.ActivityRepository, *model.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user, err := repository.NewUserRepository(db).UpsertFromTelegram(context.Background(), 42, "Ada", "", "ada")
	require.NoError(t, err)

	return repository.NewActivityRepository(db), user
}

func validInput() ActivityInput {
	return ActivityInput{
		Title:     "Standup",
		Date:      "2024-03-01",
		StartTime: "09:00",
		EndTime:   "09:30",
		Category:  "meetings",
	}
}

func TestCreateAssignsIDAndKeepsCategory(t *testing.T) {
	repo, user := newTestStore(t)
	svc := NewActivityService(repo, model.NewCategorySet(nil))

	act, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)
	require.NotZero(t, act.ID)
	require.Equal(t, "meetings", act.Category)
	require.False(t, act.Completed)
}

func TestCreateFallsBackUnknownCategory(t *testing.T) {
	repo, user := newTestStore(t)
	svc := NewActivityService(repo, model.NewCategorySet(nil))

	input := validInput()
	input.Category = "gardening"
	act, err := svc.Create(context.Background(), user, input)
	require.NoError(t, err)
	require.Equal(t, "work", act.Category)
}

func TestCreateRejectsBadInput(t *testing.T) {
	repo, user := newTestStore(t)
	svc := NewActivityService(repo, model.NewCategorySet(nil))

	tests := []struct {
		name   string
		mutate func(*ActivityInput)
	}{
		{name: "empty title", mutate: func(in *ActivityInput) { in.Title = "" }},
		{name: "bad date", mutate: func(in *ActivityInput) { in.Date = "01.03.2024" }},
		{name: "bad start time", mutate: func(in *ActivityInput) { in.StartTime = "9am" }},
		{name: "bad end time", mutate: func(in *ActivityInput) { in.EndTime = "25:00" }},
		{name: "inverted interval", mutate: func(in *ActivityInput) { in.StartTime, in.EndTime = "10:00", "09:00" }},
		{name: "zero duration", mutate: func(in *ActivityInput) { in.EndTime = in.StartTime }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), user, input)
			require.Error(t, err)
		})
	}
}

func TestCompleteAndDayBucket(t *testing.T) {
	repo, user := newTestStore(t)
	svc := NewActivityService(repo, model.NewCategorySet(nil))
	ctx := context.Background()

	later := validInput()
	later.Title = "Review"
	later.StartTime, later.EndTime = "15:00", "16:00"
	first, err := svc.Create(ctx, user, validInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, user, later)
	require.NoError(t, err)

	done, err := svc.Complete(ctx, user, first.ID)
	require.NoError(t, err)
	require.True(t, done.Completed)

	bucket, err := svc.DayBucket(ctx, user, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, bucket, 2)
	require.Equal(t, first.ID, bucket[0].ID)
	require.Equal(t, second.ID, bucket[1].ID)
	require.True(t, bucket[0].Completed)

	require.NoError(t, svc.Delete(ctx, user, second.ID))
	bucket, err = svc.DayBucket(ctx, user, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, bucket, 1)
}

func TestUpdateRewritesFields(t *testing.T) {
	repo, user := newTestStore(t)
	svc := NewActivityService(repo, model.NewCategorySet(nil))
	ctx := context.Background()

	act, err := svc.Create(ctx, user, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "Sprint planning"
	input.Date = "2024-03-04"
	updated, err := svc.Update(ctx, user, act.ID, input)
	require.NoError(t, err)
	require.Equal(t, "Sprint planning", updated.Title)
	require.Equal(t, "2024-03-04", updated.Date)

	bucket, err := svc.DayBucket(ctx, user, "2024-03-01")
	require.NoError(t, err)
	require.Empty(t, bucket)
}
