package service

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"calendar-planner/internal/schedule"
)

// SchedulerService wraps cron-based jobs, currently just the daily agenda
// broadcast.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService() *SchedulerService {
	// Jobs fire in local wall-clock time, same convention as activity
	// dates and times.
	return &SchedulerService{
		cron: cron.New(cron.WithSeconds()),
	}
}

// ScheduleDaily registers a daily job at the given "HH:MM" time.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	mins, err := schedule.ToMinutes(timeStr)
	if err != nil {
		return 0, fmt.Errorf("daily job time: %w", err)
	}
	// cron format: second minute hour dom month dow
	spec := fmt.Sprintf("0 %d %d * * *", mins%60, mins/60)
	return s.cron.AddFunc(spec, job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
