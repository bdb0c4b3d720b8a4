package schedule

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// NewClockTime builds a ClockTime from an hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ShiftCalendar holds the fixed daily shift windows used to classify
// check-in and check-out instants.
type ShiftCalendar struct {
	MorningStart   ClockTime
	MorningEnd     ClockTime
	AfternoonStart ClockTime
	AfternoonEnd   ClockTime
}

// DefaultShiftCalendar returns the 08:30-12:00 / 13:30-18:00 calendar.
func DefaultShiftCalendar() ShiftCalendar {
	return ShiftCalendar{
		MorningStart:   NewClockTime(8, 30),
		MorningEnd:     NewClockTime(12, 0),
		AfternoonStart: NewClockTime(13, 30),
		AfternoonEnd:   NewClockTime(18, 0),
	}
}

// At returns the instant at which c occurs on the calendar day of day,
// in day's location.
func (ShiftCalendar) At(day time.Time, c ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location())
}

// Validate checks that the four boundaries are strictly increasing.
func (s ShiftCalendar) Validate() error {
	if !(s.MorningStart < s.MorningEnd && s.MorningEnd < s.AfternoonStart && s.AfternoonStart < s.AfternoonEnd) {
		return fmt.Errorf("%w: %s-%s / %s-%s", ErrInvalidShiftCalendar,
			s.MorningStart, s.MorningEnd, s.AfternoonStart, s.AfternoonEnd)
	}
	return nil
}
