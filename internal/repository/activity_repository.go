package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"calendar-planner/internal/model"
)

// ActivityRepository handles CRUD for calendar activities. It is the only
// writer of activities; the schedule engine reads snapshots produced here
// and never touches the store.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, act *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(act).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// ListByUser returns the whole snapshot for one user, ordered by date then
// start time so list views read chronologically.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID uint) ([]model.Activity, error) {
	var acts []model.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("date ASC, start_time ASC, id ASC").
		Find(&acts).Error; err != nil {
		return nil, err
	}
	return acts, nil
}

// ListByUserAndDate returns one day bucket.
func (r *ActivityRepository) ListByUserAndDate(ctx context.Context, userID uint, date string) ([]model.Activity, error) {
	var acts []model.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).
		Order("start_time ASC, id ASC").
		Find(&acts).Error; err != nil {
		return nil, err
	}
	return acts, nil
}

// ListByUserBetween returns activities with date in the inclusive
// [start, end] range.
func (r *ActivityRepository) ListByUserBetween(ctx context.Context, userID uint, start, end string) ([]model.Activity, error) {
	var acts []model.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC, start_time ASC, id ASC").
		Find(&acts).Error; err != nil {
		return nil, err
	}
	return acts, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, userID, activityID uint) (*model.Activity, error) {
	var act model.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, activityID).First(&act).Error; err != nil {
		return nil, err
	}
	return &act, nil
}

func (r *ActivityRepository) Update(ctx context.Context, act *model.Activity) error {
	if err := r.db.WithContext(ctx).Save(act).Error; err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// SetCompleted flips the completion flag only; layout is unaffected.
func (r *ActivityRepository) SetCompleted(ctx context.Context, act *model.Activity, completed bool) error {
	act.Completed = completed
	if err := r.db.WithContext(ctx).Model(act).Update("completed", completed).Error; err != nil {
		return fmt.Errorf("set completed: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, userID, activityID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, activityID).
		Delete(&model.Activity{}).Error; err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}
