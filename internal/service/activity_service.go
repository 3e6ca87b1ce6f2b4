package service

import (
	"context"
	"fmt"

	"calendar-planner/internal/model"
	"calendar-planner/internal/repository"
	"calendar-planner/internal/schedule"
)

// ActivityInput represents data required to create or update an activity.
type ActivityInput struct {
	Title       string
	Description string
	Date        string
	StartTime   string
	EndTime     string
	Category    string
}

// ActivityService wraps activity business logic. All format validation
// happens here, at the data-entry boundary; the schedule engine downstream
// assumes well-formed records.
type ActivityService struct {
	repo       *repository.ActivityRepository
	categories *model.CategorySet
}

func NewActivityService(repo *repository.ActivityRepository, categories *model.CategorySet) *ActivityService {
	return &ActivityService{repo: repo, categories: categories}
}

// Categories exposes the static category table for UI keyboards.
func (s *ActivityService) Categories() *model.CategorySet {
	return s.categories
}

func (s *ActivityService) validate(input *ActivityInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := schedule.ParseDate(input.Date); err != nil {
		return err
	}
	start, err := schedule.ToMinutes(input.StartTime)
	if err != nil {
		return err
	}
	end, err := schedule.ToMinutes(input.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("end time %s must be after start time %s", input.EndTime, input.StartTime)
	}
	// Free-text category ids collapse onto the table here so stored rows
	// always carry a known id.
	input.Category = s.categories.Resolve(input.Category).ID
	return nil
}

func (s *ActivityService) Create(ctx context.Context, user *model.User, input ActivityInput) (*model.Activity, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	act := model.Activity{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Category:    input.Category,
	}
	if err := s.repo.Create(ctx, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

func (s *ActivityService) Update(ctx context.Context, user *model.User, activityID uint, input ActivityInput) (*model.Activity, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	act, err := s.repo.FindByID(ctx, user.ID, activityID)
	if err != nil {
		return nil, err
	}
	act.Title = input.Title
	act.Description = input.Description
	act.Date = input.Date
	act.StartTime = input.StartTime
	act.EndTime = input.EndTime
	act.Category = input.Category
	if err := s.repo.Update(ctx, act); err != nil {
		return nil, err
	}
	return act, nil
}

// List returns the user's full activity snapshot.
func (s *ActivityService) List(ctx context.Context, user *model.User) ([]model.Activity, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

// DayBucket returns the user's activities for one date.
func (s *ActivityService) DayBucket(ctx context.Context, user *model.User, date string) ([]model.Activity, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListByUserAndDate(ctx, user.ID, date)
}

func (s *ActivityService) Get(ctx context.Context, user *model.User, activityID uint) (*model.Activity, error) {
	return s.repo.FindByID(ctx, user.ID, activityID)
}

// Complete marks an activity done. Completion never changes layout, only
// aggregation views and visual emphasis.
func (s *ActivityService) Complete(ctx context.Context, user *model.User, activityID uint) (*model.Activity, error) {
	act, err := s.repo.FindByID(ctx, user.ID, activityID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCompleted(ctx, act, true); err != nil {
		return nil, err
	}
	return act, nil
}

func (s *ActivityService) Delete(ctx context.Context, user *model.User, activityID uint) error {
	return s.repo.Delete(ctx, user.ID, activityID)
}
