package schedule

import (
	"sort"
	"time"

	"calendar-planner/internal/model"
)

// WeekSummary counts a 7-day window of activities.
type WeekSummary struct {
	Start     string
	End       string
	Total     int
	Completed int
	Pending   int
}

// Agenda returns the activities dated date, preserving snapshot order.
func Agenda(acts []model.Activity, date string) []model.Activity {
	var out []model.Activity
	for _, act := range acts {
		if act.Date == date {
			out = append(out, act)
		}
	}
	return out
}

// WeekWindow returns the inclusive [start, end] ISO date pair of the week
// containing refDate, aligned so the week begins on weekStart.
func WeekWindow(refDate string, weekStart time.Weekday) (string, string, error) {
	ref, err := ParseDate(refDate)
	if err != nil {
		return "", "", err
	}
	back := (int(ref.Weekday()) - int(weekStart) + 7) % 7
	start := ref.AddDate(0, 0, -back)
	end := start.AddDate(0, 0, 6)
	return FormatDate(start), FormatDate(end), nil
}

// SummarizeWeek counts total, completed and pending activities inside the
// week containing refDate. Both window bounds are inclusive; an activity
// dated exactly on the closing day still counts.
func SummarizeWeek(acts []model.Activity, refDate string, weekStart time.Weekday) (WeekSummary, error) {
	start, end, err := WeekWindow(refDate, weekStart)
	if err != nil {
		return WeekSummary{}, err
	}
	sum := WeekSummary{Start: start, End: end}
	for _, act := range acts {
		if act.Date < start || act.Date > end {
			continue
		}
		sum.Total++
		if act.Completed {
			sum.Completed++
		} else {
			sum.Pending++
		}
	}
	return sum, nil
}

// Upcoming returns the next limit incomplete activities strictly in the
// future relative to now: past dates are dropped, today's activities must
// start after now's time of day, and future dates are always in. The result
// is sorted ascending by (date, start time).
func Upcoming(acts []model.Activity, now Instant, limit int) []model.Activity {
	var future []model.Activity
	for _, act := range acts {
		if act.Completed || act.Date < now.Date {
			continue
		}
		if act.Date == now.Date && minutesOrZero(act.StartTime) <= now.Minutes {
			continue
		}
		future = append(future, act)
	}

	sort.SliceStable(future, func(i, j int) bool {
		if future[i].Date != future[j].Date {
			return future[i].Date < future[j].Date
		}
		return future[i].StartTime < future[j].StartTime
	})

	if limit >= 0 && len(future) > limit {
		future = future[:limit]
	}
	return future
}

// UrgentBacklog returns up to limit incomplete activities in categoryID,
// preserving snapshot order. Unlike Upcoming this is a pure size cap with no
// time awareness: a past-dated urgent item still shows until completed.
func UrgentBacklog(acts []model.Activity, categoryID string, limit int) []model.Activity {
	var out []model.Activity
	for _, act := range acts {
		if act.Category != categoryID || act.Completed {
			continue
		}
		out = append(out, act)
		if limit >= 0 && len(out) == limit {
			break
		}
	}
	return out
}
