package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("08:30")
	require.NoError(t, err)
	assert.Equal(t, NewClockTime(8, 30), c)
	assert.Equal(t, 8, c.Hour())
	assert.Equal(t, 30, c.Minute())
	assert.Equal(t, "08:30", c.String())

	for _, bad := range []string{"", "8h30", "25:00", "08:61"} {
		_, err := ParseClockTime(bad)
		assert.ErrorIs(t, err, ErrInvalidClockTime, bad)
	}
}

func TestShiftCalendar_At(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	day := time.Date(2025, 1, 10, 22, 15, 0, 0, loc)

	got := DefaultShiftCalendar().At(day, NewClockTime(13, 30))

	assert.Equal(t, time.Date(2025, 1, 10, 13, 30, 0, 0, loc), got)
}

func TestShiftCalendar_Validate(t *testing.T) {
	assert.NoError(t, DefaultShiftCalendar().Validate())

	cal := DefaultShiftCalendar()
	cal.AfternoonStart = NewClockTime(11, 0)
	assert.ErrorIs(t, cal.Validate(), ErrInvalidShiftCalendar)
}
