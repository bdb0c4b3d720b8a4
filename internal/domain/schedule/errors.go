package schedule

import "errors"

var (
	ErrInvalidClockTime     = errors.New("clock time must be in HH:MM format")
	ErrInvalidShiftCalendar = errors.New("shift boundaries must be strictly increasing")
)
