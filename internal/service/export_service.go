package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"calendar-planner/internal/model"
	"calendar-planner/internal/repository"
	"calendar-planner/internal/schedule"
)

// ExportService serializes a user's activities as an iCalendar document.
type ExportService struct {
	repo       *repository.ActivityRepository
	categories *model.CategorySet
}

func NewExportService(repo *repository.ActivityRepository, categories *model.CategorySet) *ExportService {
	return &ExportService{repo: repo, categories: categories}
}

// Export returns the user's full activity snapshot as an ICS payload.
// One VEVENT per activity, in local wall-clock time; records whose date or
// times fail to parse are skipped rather than aborting the export.
func (s *ExportService) Export(ctx context.Context, user *model.User) ([]byte, error) {
	acts, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//calendar-planner//EN")

	now := time.Now()
	for _, act := range acts {
		start, end, ok := activityInterval(act)
		if !ok {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("activity-%d@calendar-planner", act.ID))
		ev.SetCreatedTime(act.CreatedAt)
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(act.Title)
		if act.Description != "" {
			ev.SetDescription(act.Description)
		}
		ev.SetProperty(ics.ComponentPropertyCategories, s.categories.Resolve(act.Category).Label)
		if act.Completed {
			ev.SetStatus(ics.ObjectStatusCompleted)
		}
	}

	return []byte(cal.Serialize()), nil
}

func activityInterval(act model.Activity) (time.Time, time.Time, bool) {
	day, err := schedule.ParseDate(act.Date)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	startMin, err := schedule.ToMinutes(act.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endMin, err := schedule.ToMinutes(act.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	start := day.Add(time.Duration(startMin) * time.Minute)
	end := day.Add(time.Duration(endMin) * time.Minute)
	return start, end, true
}
