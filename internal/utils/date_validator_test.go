package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayFirst(t *testing.T) {
	dv := NewDateValidator()
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		loc   *time.Location
		want  time.Time
	}{
		{"iso datetime", "2026-01-13 08:00:00", time.UTC, time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)},
		{"iso with T", "2026-01-13T08:00:05", time.UTC, time.Date(2026, 1, 13, 8, 0, 5, 0, time.UTC)},
		{"iso fractional seconds", "2026-01-13 08:00:00.250", time.UTC, time.Date(2026, 1, 13, 8, 0, 0, 250_000_000, time.UTC)},
		{"iso date only", "2026-01-13", time.UTC, time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"dotted day first", "03.04.2026 09:15:00", time.UTC, time.Date(2026, 4, 3, 9, 15, 0, 0, time.UTC)},
		{"dotted without seconds", "3.4.2026 9:15", time.UTC, time.Date(2026, 4, 3, 9, 15, 0, 0, time.UTC)},
		{"slashed day first", "03/04/2026 18:30:00", time.UTC, time.Date(2026, 4, 3, 18, 30, 0, 0, time.UTC)},
		{"dashed day first", "13-01-2026 08:00", time.UTC, time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)},
		{"two digit year", "13.01.26 08:00:00", time.UTC, time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)},
		{"padded whitespace", "  13.01.2026   08:00:00 ", time.UTC, time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)},
		{"implicit zone", "13.01.2026 08:00:00", moscow, time.Date(2026, 1, 13, 8, 0, 0, 0, moscow)},
		{"explicit offset wins", "2026-01-13T08:00:00+03:00", time.UTC, time.Date(2026, 1, 13, 5, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dv.ParseDayFirst(tt.input, tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseDayFirst_Invalid(t *testing.T) {
	dv := NewDateValidator()

	for _, input := range []string{"", "   ", "not a date", "31.02.2026 08:00:00", "13/13/2026", "25:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := dv.ParseDayFirst(input, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndConvert_ReportsFormat(t *testing.T) {
	dv := NewDateValidator()

	result := dv.ValidateAndConvert("13.01.2026 08:00:00", nil)
	assert.True(t, result.IsValid)
	assert.Equal(t, FormatDotDateTime, result.DetectedFormat)
	assert.Equal(t, time.UTC, result.ParsedTime.Location())
	assert.Equal(t, "13.01.2026 08:00:00", result.OriginalValue)

	result = dv.ValidateAndConvert("garbage", time.UTC)
	assert.False(t, result.IsValid)
	assert.True(t, result.ParsedTime.IsZero())
}

func TestAddCustomFormat(t *testing.T) {
	dv := NewDateValidator()
	before := len(dv.GetSupportedFormats())

	_, err := dv.ParseDayFirst("13 Jan 2026 08:00", time.UTC)
	require.Error(t, err)

	dv.AddCustomFormat("2 Jan 2006 15:04")
	assert.Len(t, dv.GetSupportedFormats(), before+1)

	got, err := dv.ParseDayFirst("13 Jan 2026 08:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC), got)
}
