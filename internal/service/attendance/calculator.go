package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/schedule"
)

// StandardWorkHours is the daily baseline above which hours count as overtime.
const StandardWorkHours = 8.0

// WorkedHours is the result of ComputeWorkedHours.
type WorkedHours struct {
	Hours    float64
	Overtime float64
}

// CheckInResult is the classification of a check-in instant.
type CheckInResult struct {
	LateMinutes int
	Status      attendance.Status
	ShiftType   attendance.ShiftType
	Title       string
}

// CheckOutResult is the classification of a check-out instant.
type CheckOutResult struct {
	EarlyMinutes int
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeWorkedHours turns two time-of-day strings on date into worked hours
// and overtime. Missing or unparseable input and negative durations yield a
// zero result rather than an error; ordering must be validated by the caller
// if it should be reported.
func ComputeWorkedHours(date time.Time, timeIn, timeOut *string) WorkedHours {
	if timeIn == nil || timeOut == nil {
		return WorkedHours{}
	}

	in, err := attendance.ParseTimeOfDay(*timeIn)
	if err != nil {
		return WorkedHours{}
	}
	out, err := attendance.ParseTimeOfDay(*timeOut)
	if err != nil {
		return WorkedHours{}
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	hours := day.Add(out).Sub(day.Add(in)).Hours()
	if hours < 0 || math.IsNaN(hours) {
		return WorkedHours{}
	}

	hours = round2(hours)
	return WorkedHours{
		Hours:    hours,
		Overtime: round2(math.Max(0, hours-StandardWorkHours)),
	}
}

// ClassifyCheckIn classifies a check-in instant against the shift calendar.
// A check-in between morning-end and afternoon-start is treated as an
// on-time full shift.
func ClassifyCheckIn(now time.Time, cal schedule.ShiftCalendar) CheckInResult {
	morningStart := cal.At(now, cal.MorningStart)
	morningEnd := cal.At(now, cal.MorningEnd)
	afternoonStart := cal.At(now, cal.AfternoonStart)

	switch {
	case !now.Before(afternoonStart):
		return CheckInResult{
			Status:    attendance.StatusPresent,
			ShiftType: attendance.ShiftHalf,
			Title:     "Half shift",
		}
	case now.After(morningStart) && now.Before(morningEnd):
		late := int(math.Floor(now.Sub(morningStart).Minutes()))
		if late > 0 {
			return CheckInResult{
				LateMinutes: late,
				Status:      attendance.StatusLate,
				ShiftType:   attendance.ShiftFull,
				Title:       fmt.Sprintf("Late %d min", late),
			}
		}
		fallthrough
	default:
		return CheckInResult{
			Status:    attendance.StatusPresent,
			ShiftType: attendance.ShiftFull,
			Title:     "On time",
		}
	}
}

// ClassifyCheckOut returns how many whole minutes before afternoon-end the
// check-out happened. Both shift types end at afternoon-end.
func ClassifyCheckOut(now time.Time, cal schedule.ShiftCalendar, shiftType attendance.ShiftType) CheckOutResult {
	afternoonEnd := cal.At(now, cal.AfternoonEnd)
	if !now.Before(afternoonEnd) {
		return CheckOutResult{}
	}
	return CheckOutResult{EarlyMinutes: int(math.Floor(afternoonEnd.Sub(now).Minutes()))}
}

// Indicator maps a session's classification to its display severity.
func Indicator(status attendance.Status, shiftType attendance.ShiftType, checkedIn bool) attendance.Indicator {
	switch {
	case !checkedIn:
		return attendance.IndicatorAbsent
	case shiftType == attendance.ShiftHalf:
		return attendance.IndicatorPartial
	case status == attendance.StatusLate:
		return attendance.IndicatorWarning
	default:
		return attendance.IndicatorNormal
	}
}
