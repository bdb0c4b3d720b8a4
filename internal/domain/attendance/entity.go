package attendance

import (
	"time"
)

// DateLayout is the calendar-day format used on the wire and in storage.
const DateLayout = "2006-01-02"

type RecordType string

const (
	TypeWork     RecordType = "work"
	TypeLeave    RecordType = "leave"
	TypeRemote   RecordType = "remote"
	TypeBusiness RecordType = "business"
	TypeHoliday  RecordType = "holiday"
)

var RecordTypeValues = []string{
	string(TypeWork),
	string(TypeLeave),
	string(TypeRemote),
	string(TypeBusiness),
	string(TypeHoliday),
}

// Record is one row of timekeeping data.
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time // midnight UTC
	TimeIn        *string   // HH:MM or HH:MM:SS
	TimeOut       *string
	HoursWorked   float64
	OvertimeHours float64
	Type          RecordType
	Note          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasBothTimes reports whether both time-of-day values are present.
func (r Record) HasBothTimes() bool {
	return r.TimeIn != nil && *r.TimeIn != "" && r.TimeOut != nil && *r.TimeOut != ""
}

// SameDay reports whether r falls on the calendar day of d.
func (r Record) SameDay(d time.Time) bool {
	return r.Date.Equal(TruncateDate(d))
}

// TruncateDate strips the time of day from t, keeping its calendar day
// in t's own location, and returns midnight UTC of that day.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

type ShiftType string

const (
	ShiftFull ShiftType = "full"
	ShiftHalf ShiftType = "half"
)

type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPresent Status = "present"
	StatusLate    Status = "late"
)

// Indicator is the display severity of a session.
type Indicator string

const (
	IndicatorAbsent  Indicator = "absent"
	IndicatorNormal  Indicator = "normal"
	IndicatorWarning Indicator = "warning"
	IndicatorPartial Indicator = "partial"
)

// SessionState is the self-service state of an employee for one calendar day.
type SessionState string

const (
	StateNoRecordToday SessionState = "no_record_today"
	StateCheckedIn     SessionState = "checked_in"
	StateCheckedOut    SessionState = "checked_out"
)

// SessionEvent is the daily check-in/check-out view of one employee.
type SessionEvent struct {
	EmployeeID     string
	RecordID       string
	Date           time.Time
	ActualCheckIn  *time.Time
	ActualCheckOut *time.Time
	LateMinutes    int
	EarlyMinutes   int
	ShiftType      ShiftType
	Status         Status
	Title          string
	Indicator      Indicator
}

// State derives the tagged state from the event's timestamps.
func (e *SessionEvent) State() SessionState {
	switch {
	case e == nil:
		return StateNoRecordToday
	case e.ActualCheckIn == nil || e.ActualCheckOut != nil:
		return StateCheckedOut
	default:
		return StateCheckedIn
	}
}

// Stats are live aggregate metrics over a filtered list of records.
type Stats struct {
	TotalRecords   int
	TotalEmployees int
	TotalHours     float64
	TotalOvertime  float64
	DaysWorked     int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, ErrInvalidTimeOfDay
}
