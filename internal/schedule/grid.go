package schedule

// GridConfig describes the fixed time grid activities are mapped onto.
// StartHour is the earliest displayed hour, HourSpan the number of hour rows,
// RowHeight the units (pixels, cells) per hour.
type GridConfig struct {
	StartHour int
	HourSpan  int
	RowHeight float64
}

// Position is a vertical placement inside the grid, in RowHeight units.
type Position struct {
	Top    float64
	Height float64
}

// EndHour returns the first hour past the grid.
func (g GridConfig) EndHour() int {
	return g.StartHour + g.HourSpan
}

// Position maps a (start, end) minute pair onto the grid. Pure arithmetic:
// an activity before StartHour yields a negative Top and an inverted interval
// a negative Height; clamping to the visible grid is the renderer's job.
func (g GridConfig) Position(startMin, endMin int) Position {
	origin := g.StartHour * 60
	return Position{
		Top:    float64(startMin-origin) / 60 * g.RowHeight,
		Height: float64(endMin-startMin) / 60 * g.RowHeight,
	}
}
