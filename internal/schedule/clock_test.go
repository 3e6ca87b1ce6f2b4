package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "midnight", in: "00:00", want: 0},
		{name: "morning", in: "09:30", want: 570},
		{name: "last minute", in: "23:59", want: 1439},
		{name: "missing colon", in: "0930", wantErr: true},
		{name: "seconds not supported", in: "09:30:00", wantErr: true},
		{name: "hour out of range", in: "24:00", wantErr: true},
		{name: "minute out of range", in: "12:60", wantErr: true},
		{name: "not numeric", in: "ab:cd", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinutes(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinutesRoundTrip(t *testing.T) {
	for _, hhmm := range []string{"00:00", "06:05", "12:30", "23:59"} {
		mins, err := ToMinutes(hhmm)
		require.NoError(t, err)
		require.Equal(t, hhmm, FromMinutes(mins))
	}
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, time.March, day.Month())
	require.Equal(t, "2024-03-01", FormatDate(day))

	_, err = ParseDate("01.03.2024")
	require.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestInstantAt(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 7, 59, 0, time.Local)
	instant := InstantAt(at)
	require.Equal(t, "2024-03-01", instant.Date)
	require.Equal(t, 14*60+7, instant.Minutes)
}
