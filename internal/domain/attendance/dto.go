package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

// ========================================
// ATTENDANCE RECORD DTOs
// ========================================

// RecordInput is the caller-supplied shape of a record, shared by create and update.
type RecordInput struct {
	EmployeeID    string   `json:"employee_id" validate:"required"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	TimeIn        *string  `json:"time_in,omitempty" validate:"omitempty,timeofday"`
	TimeOut       *string  `json:"time_out,omitempty" validate:"omitempty,timeofday"`
	HoursWorked   *float64 `json:"hours_worked,omitempty" validate:"omitempty,gte=0"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty" validate:"omitempty,gte=0"`
	Type          string   `json:"type"`
	Note          *string  `json:"note,omitempty"`
}

// normalize trims input and turns blank optional strings into nil.
func (r *RecordInput) normalize() {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Date = strings.TrimSpace(r.Date)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.TimeIn = blankToNil(r.TimeIn)
	r.TimeOut = blankToNil(r.TimeOut)
	r.Note = blankToNil(r.Note)
	if r.Type == "" {
		r.Type = string(TypeWork)
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Validate performs the blocking, user-visible checks that must pass before
// a record reaches the store. Whether the employee exists is checked by the
// service against the directory.
func (r *RecordInput) Validate() error {
	r.normalize()

	errs := validator.Struct(r)

	if !validator.IsInSlice(r.Type, RecordTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(RecordTypeValues, ", "),
		})
	}

	if r.TimeIn != nil && r.TimeOut != nil {
		in, inErr := ParseTimeOfDay(*r.TimeIn)
		out, outErr := ParseTimeOfDay(*r.TimeOut)
		if inErr == nil && outErr == nil && out < in {
			errs = append(errs, validator.ValidationError{
				Field:   "time_out",
				Message: "time_out must not be before time_in",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToRecord converts a validated input into a Record. Derived fields are
// recomputed by the store when both times are present.
func (r RecordInput) ToRecord() (Record, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Record{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	rec := Record{
		EmployeeID: r.EmployeeID,
		Date:       date,
		TimeIn:     r.TimeIn,
		TimeOut:    r.TimeOut,
		Type:       RecordType(r.Type),
		Note:       r.Note,
	}
	if r.HoursWorked != nil {
		rec.HoursWorked = *r.HoursWorked
	}
	if r.OvertimeHours != nil {
		rec.OvertimeHours = *r.OvertimeHours
	}
	return rec, nil
}

type CreateAttendanceRequest struct {
	RecordInput
}

// UpdateAttendanceRequest replaces every field of the record with the given ID.
type UpdateAttendanceRequest struct {
	ID string `json:"-"`
	RecordInput
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	Date          string  `json:"date"`
	TimeIn        *string `json:"time_in,omitempty"`
	TimeOut       *string `json:"time_out,omitempty"`
	HoursWorked   float64 `json:"hours_worked"`
	OvertimeHours float64 `json:"overtime_hours"`
	Type          string  `json:"type"`
	Note          *string `json:"note,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// AttendanceFilter narrows list and stats queries.
type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Date validation
	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListFilter is the parsed form of AttendanceFilter used by the store.
type ListFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

// ToListFilter converts a validated filter. Date takes precedence over the range.
func (f AttendanceFilter) ToListFilter() ListFilter {
	var lf ListFilter
	if f.EmployeeID != nil {
		lf.EmployeeID = strings.TrimSpace(*f.EmployeeID)
	}

	parse := func(s *string) *time.Time {
		if s == nil || *s == "" {
			return nil
		}
		t, err := ParseDate(*s)
		if err != nil {
			return nil
		}
		return &t
	}

	if d := parse(f.Date); d != nil {
		lf.From, lf.To = d, d
		return lf
	}
	lf.From = parse(f.StartDate)
	lf.To = parse(f.EndDate)
	return lf
}

// Matches reports whether r passes the filter.
func (f ListFilter) Matches(r Record) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.From != nil && r.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && r.Date.After(*f.To) {
		return false
	}
	return true
}

type ListAttendanceResponse struct {
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type StatsResponse struct {
	TotalRecords   int     `json:"total_records"`
	TotalEmployees int     `json:"total_employees"`
	TotalHours     float64 `json:"total_hours"`
	TotalOvertime  float64 `json:"total_overtime"`
	DaysWorked     int     `json:"days_worked"`
}

// ========================================
// SELF-SERVICE SESSION DTOs
// ========================================

type SessionEventResponse struct {
	RecordID       string  `json:"record_id,omitempty"`
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	ActualCheckIn  *string `json:"actual_check_in,omitempty"`
	ActualCheckOut *string `json:"actual_check_out,omitempty"`
	LateMinutes    int     `json:"late_minutes"`
	EarlyMinutes   int     `json:"early_minutes"`
	ShiftType      string  `json:"shift_type"`
	Status         string  `json:"status"`
	Title          string  `json:"title"`
	Indicator      string  `json:"indicator"`
}

type SessionStatusResponse struct {
	State       string                `json:"state"`
	CanCheckIn  bool                  `json:"can_check_in"`
	CanCheckOut bool                  `json:"can_check_out"`
	Today       *SessionEventResponse `json:"today,omitempty"`
	Message     string                `json:"message"`
}
