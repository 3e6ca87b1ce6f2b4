package schedule

import "calendar-planner/internal/model"

// Overlaps reports whether two activities on the same day intersect in time.
// Half-open semantics: an activity ending exactly when another starts does
// not overlap it. An activity with a zero or inverted interval
// (EndTime <= StartTime) never overlaps anything, including itself; that is
// the defined behavior, not an error.
//
// Malformed time strings count as minute 0, so callers are expected to have
// validated activities at the data-entry boundary.
func Overlaps(a, b model.Activity) bool {
	aStart := minutesOrZero(a.StartTime)
	aEnd := minutesOrZero(a.EndTime)
	bStart := minutesOrZero(b.StartTime)
	bEnd := minutesOrZero(b.EndTime)
	return aStart < bEnd && bStart < aEnd
}

func minutesOrZero(hhmm string) int {
	mins, err := ToMinutes(hhmm)
	if err != nil {
		return 0
	}
	return mins
}
