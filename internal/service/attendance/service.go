package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

const timestampLayout = "2006-01-02 15:04:05"

type AttendanceServiceImpl struct {
	store     *Store
	directory employee.Directory
}

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	employees, record, err := a.validate(ctx, &req.RecordInput)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := a.store.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(created, employees), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(req.ID) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}

	employees, record, err := a.validate(ctx, &req.RecordInput)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.store.Update(ctx, req.ID, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(updated, employees), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	return a.store.Delete(ctx, id)
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := a.store.Get(id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(record, a.employees(ctx)), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records := a.store.List(filter.ToListFilter())
	employees := a.employees(ctx)

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toAttendanceResponse(r, employees))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  len(responses),
		Attendances: responses,
	}, nil
}

// GetStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStats(ctx context.Context, filter attendance.AttendanceFilter) (attendance.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	stats := Aggregate(a.store.List(filter.ToListFilter()), len(a.employees(ctx)))
	return attendance.StatsResponse{
		TotalRecords:   stats.TotalRecords,
		TotalEmployees: stats.TotalEmployees,
		TotalHours:     stats.TotalHours,
		TotalOvertime:  stats.TotalOvertime,
		DaysWorked:     stats.DaysWorked,
	}, nil
}

// validate runs the input checks and the directory lookup, returning the
// directory snapshot it used so responses resolve names consistently.
func (a *AttendanceServiceImpl) validate(ctx context.Context, input *attendance.RecordInput) ([]employee.Employee, attendance.Record, error) {
	var errs validator.ValidationErrors
	if err := input.Validate(); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, attendance.Record{}, err
		}
		errs = append(errs, verrs...)
	}

	employees, err := a.directory.List(ctx)
	if err != nil {
		return nil, attendance.Record{}, fmt.Errorf("failed to list employees: %w", err)
	}
	if input.EmployeeID != "" && !employee.Exists(employees, input.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id does not match any known employee",
		})
	}

	if len(errs) > 0 {
		return nil, attendance.Record{}, errs
	}

	record, err := input.ToRecord()
	if err != nil {
		return nil, attendance.Record{}, err
	}
	return employees, record, nil
}

// employees returns the directory, or nil when it cannot be read; names then
// resolve to empty strings.
func (a *AttendanceServiceImpl) employees(ctx context.Context) []employee.Employee {
	list, err := a.directory.List(ctx)
	if err != nil {
		return nil
	}
	return list
}

func toAttendanceResponse(r attendance.Record, employees []employee.Employee) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  employee.NameOf(employees, r.EmployeeID),
		Date:          r.Date.Format(attendance.DateLayout),
		TimeIn:        r.TimeIn,
		TimeOut:       r.TimeOut,
		HoursWorked:   r.HoursWorked,
		OvertimeHours: r.OvertimeHours,
		Type:          string(r.Type),
		Note:          r.Note,
		CreatedAt:     r.CreatedAt.Format(timestampLayout),
		UpdatedAt:     r.UpdatedAt.Format(timestampLayout),
	}
}

func NewAttendanceService(store *Store, directory employee.Directory) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		store:     store,
		directory: directory,
	}
}

type SessionServiceImpl struct {
	session *Session
}

// GetStatus implements attendance.SessionService.
func (s *SessionServiceImpl) GetStatus(ctx context.Context, employeeID string) (attendance.SessionStatusResponse, error) {
	status, err := s.session.Status(ctx, employeeID)
	if err != nil {
		return attendance.SessionStatusResponse{}, err
	}

	resp := attendance.SessionStatusResponse{
		State:       string(status.State),
		CanCheckIn:  status.CanCheckIn,
		CanCheckOut: status.CanCheckOut,
		Message:     statusMessage(status),
	}
	if status.Event != nil {
		ev := toSessionEventResponse(*status.Event)
		resp.Today = &ev
	}
	return resp, nil
}

// CheckIn implements attendance.SessionService.
func (s *SessionServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.SessionEventResponse, error) {
	event, err := s.session.CheckIn(ctx, employeeID)
	if err != nil {
		return attendance.SessionEventResponse{}, err
	}
	return toSessionEventResponse(event), nil
}

// CheckOut implements attendance.SessionService.
func (s *SessionServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.SessionEventResponse, error) {
	event, err := s.session.CheckOut(ctx, employeeID)
	if err != nil {
		return attendance.SessionEventResponse{}, err
	}
	return toSessionEventResponse(event), nil
}

// GetHistory implements attendance.SessionService.
func (s *SessionServiceImpl) GetHistory(ctx context.Context, employeeID string) ([]attendance.SessionEventResponse, error) {
	events, err := s.session.History(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.SessionEventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, toSessionEventResponse(ev))
	}
	return responses, nil
}

func statusMessage(status SessionStatus) string {
	switch status.State {
	case attendance.StateNoRecordToday:
		return "You have not checked in today"
	case attendance.StateCheckedIn:
		return "Checked in at " + status.Event.ActualCheckIn.Format("15:04")
	default:
		if status.Event != nil && status.Event.ActualCheckIn == nil {
			return status.Event.Title
		}
		return "Attendance for today is complete"
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(timestampLayout)
	return &format
}

func toSessionEventResponse(ev attendance.SessionEvent) attendance.SessionEventResponse {
	return attendance.SessionEventResponse{
		RecordID:       ev.RecordID,
		EmployeeID:     ev.EmployeeID,
		Date:           ev.Date.Format(attendance.DateLayout),
		ActualCheckIn:  timePtrToString(ev.ActualCheckIn),
		ActualCheckOut: timePtrToString(ev.ActualCheckOut),
		LateMinutes:    ev.LateMinutes,
		EarlyMinutes:   ev.EarlyMinutes,
		ShiftType:      string(ev.ShiftType),
		Status:         string(ev.Status),
		Title:          ev.Title,
		Indicator:      string(ev.Indicator),
	}
}

func NewSessionService(session *Session) attendance.SessionService {
	return &SessionServiceImpl{session: session}
}
