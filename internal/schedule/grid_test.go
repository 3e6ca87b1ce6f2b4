package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridPosition(t *testing.T) {
	grid := GridConfig{StartHour: 6, HourSpan: 17, RowHeight: 48}

	tests := []struct {
		name       string
		start, end int
		top        float64
		height     float64
	}{
		{name: "on the origin", start: 6 * 60, end: 7 * 60, top: 0, height: 48},
		{name: "mid morning", start: 9 * 60, end: 10*60 + 30, top: 144, height: 72},
		{name: "before origin goes negative", start: 5 * 60, end: 6 * 60, top: -48, height: 48},
		{name: "inverted interval has negative height", start: 10 * 60, end: 9 * 60, top: 192, height: -48},
		{name: "zero duration", start: 9 * 60, end: 9 * 60, top: 144, height: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := grid.Position(tt.start, tt.end)
			require.InDelta(t, tt.top, pos.Top, 1e-9)
			require.InDelta(t, tt.height, pos.Height, 1e-9)
		})
	}
}

func TestGridPositionEndConsistency(t *testing.T) {
	grid := GridConfig{StartHour: 8, HourSpan: 10, RowHeight: 32}

	// Top+Height computed from the start must equal the Top of an interval
	// starting at the end time.
	for _, iv := range [][2]int{{8 * 60, 9 * 60}, {500, 725}, {7 * 60, 8*60 + 15}} {
		pos := grid.Position(iv[0], iv[1])
		fromEnd := grid.Position(iv[1], iv[1])
		require.InDelta(t, fromEnd.Top, pos.Top+pos.Height, 1e-9)
	}
}

func TestGridEndHour(t *testing.T) {
	require.Equal(t, 23, GridConfig{StartHour: 6, HourSpan: 17}.EndHour())
}
