package schedule

import (
	"sort"

	"calendar-planner/internal/model"
)

// Placement locates one activity inside its day's lane layout. Column is the
// zero-based lane index; TotalColumns is the number of lanes opened for the
// whole day, so the rendered width of every activity that day is
// 1/TotalColumns. The count is day-global on purpose: a lone activity sharing
// a day with an unrelated overlapping pair still renders at fractional width.
// Counting per overlap cluster would give wider boxes but a less uniform
// grid, and the renderers here assume one lane count per day.
type Placement struct {
	Column       int
	TotalColumns int
}

// PackColumns assigns each activity of one day bucket to a lane such that no
// two activities sharing a lane overlap. Greedy first-fit over the
// activities sorted by (start, end, id), which makes the layout independent
// of store-return order. The input slice is not modified.
//
// The returned map is keyed by activity id; an empty input yields an empty
// map.
func PackColumns(day []model.Activity) map[uint]Placement {
	placements := make(map[uint]Placement, len(day))
	if len(day) == 0 {
		return placements
	}

	ordered := make([]model.Activity, len(day))
	copy(ordered, day)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartTime != ordered[j].StartTime {
			return ordered[i].StartTime < ordered[j].StartTime
		}
		if ordered[i].EndTime != ordered[j].EndTime {
			return ordered[i].EndTime < ordered[j].EndTime
		}
		return ordered[i].ID < ordered[j].ID
	})

	var columns [][]model.Activity
	for _, act := range ordered {
		placed := false
		for i := range columns {
			if !conflicts(columns[i], act) {
				columns[i] = append(columns[i], act)
				placements[act.ID] = Placement{Column: i}
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []model.Activity{act})
			placements[act.ID] = Placement{Column: len(columns) - 1}
		}
	}

	total := len(columns)
	for id, p := range placements {
		p.TotalColumns = total
		placements[id] = p
	}
	return placements
}

func conflicts(column []model.Activity, act model.Activity) bool {
	for _, other := range column {
		if Overlaps(other, act) {
			return true
		}
	}
	return false
}
