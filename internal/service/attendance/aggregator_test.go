package attendance

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	records := []attendance.Record{
		{EmployeeID: "emp-1", Type: attendance.TypeWork, TimeIn: strPtr("08:30"), TimeOut: strPtr("17:30"), HoursWorked: 9, OvertimeHours: 1},
		{EmployeeID: "emp-1", Type: attendance.TypeWork, TimeIn: strPtr("09:00"), HoursWorked: 0},
		{EmployeeID: "emp-2", Type: attendance.TypeRemote, TimeIn: strPtr("09:00"), TimeOut: strPtr("17:20"), HoursWorked: 8.33, OvertimeHours: 0.33},
		{EmployeeID: "emp-2", Type: attendance.TypeLeave},
	}

	stats := Aggregate(records, 10)

	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 2, stats.TotalEmployees)
	assert.Equal(t, 17.33, stats.TotalHours)
	assert.Equal(t, 1.33, stats.TotalOvertime)
	assert.Equal(t, 1, stats.DaysWorked)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, 7)

	assert.Equal(t, attendance.Stats{TotalEmployees: 7}, stats)
}

func TestAggregate_RoundsSums(t *testing.T) {
	records := []attendance.Record{
		{EmployeeID: "emp-1", HoursWorked: 0.1},
		{EmployeeID: "emp-1", HoursWorked: 0.2},
	}

	assert.Equal(t, 0.3, Aggregate(records, 0).TotalHours)
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []attendance.Record{
		{ID: "a", EmployeeID: "emp-1", Type: attendance.TypeWork, TimeIn: strPtr("08:00"), TimeOut: strPtr("18:30"), HoursWorked: 10.5, OvertimeHours: 2.5},
		{ID: "b", EmployeeID: "emp-2", Type: attendance.TypeLeave},
	}
	snapshot := append([]attendance.Record(nil), records...)

	first := Aggregate(records, 5)
	second := Aggregate(records, 5)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records)
}

func TestAggregate_FullDayThroughStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeRepo{}, nil)

	created, err := store.Create(ctx, workRecord("emp-1", "2025-01-10", "08:00", "18:30"))
	require.NoError(t, err)
	assert.Equal(t, 10.5, created.HoursWorked)
	assert.Equal(t, 2.5, created.OvertimeHours)

	_, err = store.Create(ctx, workRecord("emp-1", "2025-01-10", "09:00", "17:00"))
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)

	records := store.List(attendance.ListFilter{})
	require.Len(t, records, 1)

	want := attendance.Stats{TotalRecords: 1, TotalEmployees: 1, TotalHours: 10.5, TotalOvertime: 2.5, DaysWorked: 1}
	assert.Equal(t, want, Aggregate(records, 2))
	assert.Equal(t, want, Aggregate(records, 2))
}
