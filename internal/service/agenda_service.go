package service

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"calendar-planner/internal/config"
	"calendar-planner/internal/model"
	"calendar-planner/internal/repository"
	"calendar-planner/internal/schedule"
)

// laneWidth is the number of cells one grid lane occupies in text rendering.
const laneWidth = 14

// AgendaService turns schedule engine views into human-readable messages for
// chat delivery and scheduled reports.
type AgendaService struct {
	repo       *repository.ActivityRepository
	categories *model.CategorySet
	settings   *config.Settings
}

func NewAgendaService(repo *repository.ActivityRepository, categories *model.CategorySet, settings *config.Settings) *AgendaService {
	return &AgendaService{repo: repo, categories: categories, settings: settings}
}

func (s *AgendaService) grid() schedule.GridConfig {
	// RowHeight 1 makes Position yield text row indexes directly.
	return schedule.GridConfig{
		StartHour: s.settings.Grid.StartHour,
		HourSpan:  s.settings.Grid.HourSpan,
		RowHeight: 1,
	}
}

// DayGrid renders one day as an hour-by-hour monospace grid. Overlapping
// activities split into side-by-side lanes; every lane of a day shares the
// same width, so a day with any overlap narrows all its entries.
func (s *AgendaService) DayGrid(ctx context.Context, user *model.User, date string) (string, error) {
	bucket, err := s.repo.ListByUserAndDate(ctx, user.ID, date)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", date))
	if len(bucket) == 0 {
		b.WriteString("— nothing scheduled\n")
		return strings.TrimSpace(b.String()), nil
	}

	placements := schedule.PackColumns(bucket)
	lanes := 1
	for _, p := range placements {
		lanes = p.TotalColumns
		break
	}

	grid := s.grid()
	rows := grid.HourSpan
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, lanes)
	}

	for _, act := range bucket {
		start, err := schedule.ToMinutes(act.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.ToMinutes(act.EndTime)
		if err != nil {
			continue
		}
		pos := grid.Position(start, end)
		first := int(math.Floor(pos.Top))
		last := int(math.Ceil(pos.Top+pos.Height)) - 1
		if last < 0 || first >= rows {
			continue
		}
		// Clip to the visible grid; the mapper itself never clamps.
		if first < 0 {
			first = 0
		}
		if last >= rows {
			last = rows - 1
		}
		lane := placements[act.ID].Column
		cells[first][lane] = laneLabel(act)
		for r := first + 1; r <= last; r++ {
			if cells[r][lane] == "" {
				cells[r][lane] = "·"
			}
		}
	}

	b.WriteString("<pre>")
	for r := 0; r < rows; r++ {
		hour := grid.StartHour + r
		line := schedule.FromMinutes(hour*60) + " "
		for lane := 0; lane < lanes; lane++ {
			line += "|" + padCell(cells[r][lane])
		}
		// Escape after padding; entities render as single characters, so
		// alignment is computed on the raw text.
		b.WriteString(html.EscapeString(line))
		b.WriteString("\n")
	}
	b.WriteString("</pre>\n")

	for _, act := range bucket {
		b.WriteString(formatActivityLine(act, s.categories))
	}

	return strings.TrimSpace(b.String()), nil
}

// WeekOverview renders completion counts for the week containing refDate.
func (s *AgendaService) WeekOverview(ctx context.Context, user *model.User, refDate string) (string, error) {
	start, end, err := schedule.WeekWindow(refDate, s.settings.WeekStartDay())
	if err != nil {
		return "", err
	}
	acts, err := s.repo.ListByUserBetween(ctx, user.ID, start, end)
	if err != nil {
		return "", err
	}
	sum, err := schedule.SummarizeWeek(acts, refDate, s.settings.WeekStartDay())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗓 <b>Week %s … %s</b>\n", sum.Start, sum.End))
	b.WriteString(fmt.Sprintf("Σ %d total · ✅ %d done · ⏳ %d pending\n", sum.Total, sum.Completed, sum.Pending))

	byDate := make(map[string][]model.Activity)
	for _, act := range acts {
		byDate[act.Date] = append(byDate[act.Date], act)
	}
	day, _ := schedule.ParseDate(start)
	for i := 0; i < 7; i++ {
		date := schedule.FormatDate(day.AddDate(0, 0, i))
		if dayActs := byDate[date]; len(dayActs) > 0 {
			b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", date))
			for _, act := range dayActs {
				b.WriteString(formatActivityLine(act, s.categories))
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// UpcomingDigest lists the next incomplete activities strictly after now.
func (s *AgendaService) UpcomingDigest(ctx context.Context, user *model.User, now time.Time) (string, error) {
	acts, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	next := schedule.Upcoming(acts, schedule.InstantAt(now), s.settings.UpcomingLimit)

	var b strings.Builder
	b.WriteString("⏭ <b>Coming up</b>\n")
	if len(next) == 0 {
		b.WriteString("— nothing ahead\n")
	}
	for _, act := range next {
		b.WriteString(fmt.Sprintf("%s ", act.Date))
		b.WriteString(formatActivityLine(act, s.categories))
	}
	return strings.TrimSpace(b.String()), nil
}

// UrgentDigest lists the capped incomplete urgent backlog.
func (s *AgendaService) UrgentDigest(ctx context.Context, user *model.User) (string, error) {
	acts, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	urgent := schedule.UrgentBacklog(acts, model.UrgentCategoryID, s.settings.UrgentLimit)

	var b strings.Builder
	b.WriteString("🔥 <b>Urgent backlog</b>\n")
	if len(urgent) == 0 {
		b.WriteString("— all clear\n")
	}
	for _, act := range urgent {
		b.WriteString(fmt.Sprintf("%s ", act.Date))
		b.WriteString(formatActivityLine(act, s.categories))
	}
	return strings.TrimSpace(b.String()), nil
}

// DailyReport builds the scheduled morning summary: today's agenda plus the
// upcoming and urgent digests and the running week counts.
func (s *AgendaService) DailyReport(ctx context.Context, user *model.User, now time.Time) (string, error) {
	acts, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}

	instant := schedule.InstantAt(now)
	today := schedule.Agenda(acts, instant.Date)
	next := schedule.Upcoming(acts, instant, s.settings.UpcomingLimit)
	urgent := schedule.UrgentBacklog(acts, model.UrgentCategoryID, s.settings.UrgentLimit)
	sum, err := schedule.SummarizeWeek(acts, instant.Date, s.settings.WeekStartDay())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📋 <b>Daily agenda</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", instant.Date))

	b.WriteString("🕘 <b>Today</b>\n")
	if len(today) == 0 {
		b.WriteString("— nothing scheduled\n")
	}
	for _, act := range today {
		b.WriteString(formatActivityLine(act, s.categories))
	}

	b.WriteString("\n⏭ <b>Coming up</b>\n")
	if len(next) == 0 {
		b.WriteString("— nothing ahead\n")
	}
	for _, act := range next {
		b.WriteString(fmt.Sprintf("%s ", act.Date))
		b.WriteString(formatActivityLine(act, s.categories))
	}

	if len(urgent) > 0 {
		b.WriteString("\n🔥 <b>Urgent backlog</b>\n")
		for _, act := range urgent {
			b.WriteString(fmt.Sprintf("%s ", act.Date))
			b.WriteString(formatActivityLine(act, s.categories))
		}
	}

	b.WriteString(fmt.Sprintf("\n🗓 Week: %d total · %d done · %d pending", sum.Total, sum.Completed, sum.Pending))

	return strings.TrimSpace(b.String()), nil
}

func formatActivityLine(act model.Activity, categories *model.CategorySet) string {
	icon := "🟢"
	if act.Completed {
		icon = "✅"
	} else if act.Category == model.UrgentCategoryID {
		icon = "🔥"
	}

	label := categories.Resolve(act.Category).Label
	line := fmt.Sprintf("%s %s–%s %s <i>(%s)</i>",
		icon, act.StartTime, act.EndTime,
		html.EscapeString(strings.TrimSpace(act.Title)),
		html.EscapeString(label))
	if act.Description != "" {
		line += fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(act.Description)))
	}
	return line + "\n"
}

func laneLabel(act model.Activity) string {
	title := strings.TrimSpace(act.Title)
	if act.Completed {
		title = "✓" + title
	}
	runes := []rune(title)
	if len(runes) > laneWidth {
		return string(runes[:laneWidth-1]) + "…"
	}
	return title
}

func padCell(v string) string {
	n := laneWidth - len([]rune(v))
	if n < 0 {
		n = 0
	}
	return v + strings.Repeat(" ", n)
}
