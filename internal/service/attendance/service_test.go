package attendance

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (attendance.AttendanceService, *Store) {
	t.Helper()
	store := newTestStore(t, &fakeRepo{}, nil)
	return NewAttendanceService(store, testDirectory()), store
}

func createRequest(employeeID, date string) attendance.CreateAttendanceRequest {
	return attendance.CreateAttendanceRequest{RecordInput: attendance.RecordInput{
		EmployeeID: employeeID,
		Date:       date,
	}}
}

func TestAttendanceService_CreateAttendance(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest("emp-2", "2025-03-10")
	req.TimeIn = strPtr("08:30")
	req.TimeOut = strPtr("18:00")
	req.Note = strPtr("  ")

	resp, err := svc.CreateAttendance(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "rec-1", resp.ID)
	assert.Equal(t, "Siti Rahma", resp.EmployeeName)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, 9.5, resp.HoursWorked)
	assert.Equal(t, 1.5, resp.OvertimeHours)
	assert.Equal(t, "work", resp.Type)
	assert.Nil(t, resp.Note)
}

func TestAttendanceService_CreateAttendanceValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *attendance.CreateAttendanceRequest)
		fields []string
	}{
		{"missing employee", func(r *attendance.CreateAttendanceRequest) { r.EmployeeID = " " }, []string{"employee_id"}},
		{"unknown employee", func(r *attendance.CreateAttendanceRequest) { r.EmployeeID = "emp-9" }, []string{"employee_id"}},
		{"bad date", func(r *attendance.CreateAttendanceRequest) { r.Date = "10/03/2025" }, []string{"date"}},
		{"bad type", func(r *attendance.CreateAttendanceRequest) { r.Type = "vacation" }, []string{"type"}},
		{"bad time", func(r *attendance.CreateAttendanceRequest) { r.TimeIn = strPtr("25:00") }, []string{"time_in"}},
		{"out before in", func(r *attendance.CreateAttendanceRequest) {
			r.TimeIn = strPtr("17:00")
			r.TimeOut = strPtr("09:00")
		}, []string{"time_out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			req := createRequest("emp-1", "2025-03-10")
			tt.mutate(&req)

			_, err := svc.CreateAttendance(context.Background(), req)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			for _, field := range tt.fields {
				assert.Contains(t, verrs.ToMap(), field)
			}
			assert.Empty(t, store.List(attendance.ListFilter{}))
		})
	}
}

func TestAttendanceService_CreateAttendanceDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAttendance(ctx, createRequest("emp-1", "2025-03-10"))
	require.NoError(t, err)

	_, err = svc.CreateAttendance(ctx, createRequest("emp-1", "2025-03-10"))
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)
}

func TestAttendanceService_DirectoryFailure(t *testing.T) {
	store := newTestStore(t, &fakeRepo{}, nil)
	svc := NewAttendanceService(store, &fakeDirectory{err: errors.New("directory down")})

	_, err := svc.CreateAttendance(context.Background(), createRequest("emp-1", "2025-03-10"))
	assert.ErrorContains(t, err, "directory down")
}

func TestAttendanceService_UpdateAttendance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAttendance(ctx, createRequest("emp-1", "2025-03-10"))
	require.NoError(t, err)

	updated, err := svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{
		ID: created.ID,
		RecordInput: attendance.RecordInput{
			EmployeeID: "emp-1",
			Date:       "2025-03-10",
			TimeIn:     strPtr("09:00"),
			TimeOut:    strPtr("17:00"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 8.0, updated.HoursWorked)

	_, err = svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{
		ID:          "missing",
		RecordInput: attendance.RecordInput{EmployeeID: "emp-1", Date: "2025-03-10"},
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{
		ID:          "  ",
		RecordInput: attendance.RecordInput{EmployeeID: "emp-1", Date: "2025-03-10"},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "id is required", verrs.ToMap()["id"])
}

func TestAttendanceService_GetAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAttendance(ctx, createRequest("emp-1", "2025-03-10"))
	require.NoError(t, err)

	got, err := svc.GetAttendance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Andi Pratama", got.EmployeeName)

	require.NoError(t, svc.DeleteAttendance(ctx, created.ID))
	_, err = svc.GetAttendance(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, svc.DeleteAttendance(ctx, created.ID), attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_ListAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, req := range []attendance.CreateAttendanceRequest{
		{RecordInput: attendance.RecordInput{EmployeeID: "emp-1", Date: "2025-03-09", TimeIn: strPtr("08:00"), TimeOut: strPtr("17:00")}},
		{RecordInput: attendance.RecordInput{EmployeeID: "emp-1", Date: "2025-03-10", TimeIn: strPtr("08:00"), TimeOut: strPtr("18:30")}},
		{RecordInput: attendance.RecordInput{EmployeeID: "emp-2", Date: "2025-03-10", Type: "leave"}},
	} {
		_, err := svc.CreateAttendance(ctx, req)
		require.NoError(t, err)
	}

	employeeID := "emp-1"
	list, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{EmployeeID: &employeeID})
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	assert.Equal(t, "2025-03-10", list.Attendances[0].Date)

	stats, err := svc.GetStats(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatsResponse{
		TotalRecords:   3,
		TotalEmployees: 2,
		TotalHours:     19.5,
		TotalOvertime:  3.5,
		DaysWorked:     2,
	}, stats)

	day := "2025-03-01"
	stats, err = svc.GetStats(ctx, attendance.AttendanceFilter{Date: &day})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRecords)
	assert.Equal(t, 2, stats.TotalEmployees)

	bad := "yesterday"
	_, err = svc.ListAttendance(ctx, attendance.AttendanceFilter{StartDate: &bad})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_date")
}

func TestSessionService_GetStatus(t *testing.T) {
	f := newSessionFixture(t)
	svc := NewSessionService(f.session)
	ctx := context.Background()

	status, err := svc.GetStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "no_record_today", status.State)
	assert.True(t, status.CanCheckIn)
	assert.Nil(t, status.Today)

	f.now = at(8, 20, 0)
	event, err := svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "On time", event.Title)
	require.NotNil(t, event.ActualCheckIn)
	assert.Equal(t, "2025-03-10 08:20:00", *event.ActualCheckIn)

	status, err = svc.GetStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "checked_in", status.State)
	assert.Equal(t, "Checked in at 08:20", status.Message)
	require.NotNil(t, status.Today)
	assert.Equal(t, "normal", status.Today.Indicator)

	history, err := svc.GetHistory(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
