package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRecords []attendance.Record

func (s staticRecords) List(filter attendance.ListFilter) []attendance.Record {
	var out []attendance.Record
	for _, r := range s {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

type staticDirectory []employee.Employee

func (s staticDirectory) List(ctx context.Context) ([]employee.Employee, error) { return s, nil }

type collectSink struct{ items []notification.Notification }

func (c *collectSink) Notify(ctx context.Context, n notification.Notification) {
	c.items = append(c.items, n)
}

var wib = time.FixedZone("WIB", 7*60*60)

func strPtr(s string) *string { return &s }

func day(s string) time.Time {
	d, _ := attendance.ParseDate(s)
	return d
}

func newJobs(now time.Time, sink *collectSink) *AttendanceJobs {
	records := staticRecords{
		{ID: "a", EmployeeID: "EMP-001", Date: day("2025-03-09"), TimeIn: strPtr("08:30"), TimeOut: strPtr("17:30"), HoursWorked: 9, OvertimeHours: 1, Type: attendance.TypeWork},
		{ID: "b", EmployeeID: "EMP-002", Date: day("2025-03-09"), TimeIn: strPtr("09:00"), Type: attendance.TypeWork},
		{ID: "c", EmployeeID: "EMP-001", Date: day("2025-03-08"), TimeIn: strPtr("09:00"), Type: attendance.TypeWork},
	}
	directory := staticDirectory{{ID: "EMP-001"}, {ID: "EMP-002"}, {ID: "EMP-003"}}
	jobs := NewAttendanceJobs(records, directory, sink, wib)
	jobs.now = func() time.Time { return now }
	return jobs
}

func TestDailyAttendanceSummary(t *testing.T) {
	sink := &collectSink{}
	// 00:15 on the 10th in WIB
	jobs := newJobs(time.Date(2025, 3, 9, 17, 15, 0, 0, time.UTC), sink)

	require.NoError(t, jobs.DailyAttendanceSummary(context.Background()))

	require.Len(t, sink.items, 1)
	n := sink.items[0]
	assert.Equal(t, notification.SeverityInfo, n.Severity)
	assert.Equal(t, "2025-03-09", n.Data["date"])
	assert.Equal(t, 2, n.Data["total_records"])
	assert.Equal(t, 9.0, n.Data["total_hours"])
	assert.Equal(t, 1, n.Data["days_worked"])
}

func TestDailyAttendanceSummary_OutsideCatchUpWindow(t *testing.T) {
	sink := &collectSink{}
	jobs := newJobs(time.Date(2025, 3, 10, 7, 0, 0, 0, wib), sink)

	require.NoError(t, jobs.DailyAttendanceSummary(context.Background()))
	assert.Empty(t, sink.items)
}

func TestDailyAttendanceSummary_OncePerDay(t *testing.T) {
	ctx := context.Background()
	sink := &collectSink{}
	now := time.Date(2025, 3, 10, 0, 10, 0, 0, wib)
	jobs := newJobs(now, sink)
	jobs.now = func() time.Time { return now }

	// startup run, then the hourly ticks through the night
	for _, at := range []time.Duration{0, time.Minute, time.Hour, 2*time.Hour + 30*time.Minute} {
		now = time.Date(2025, 3, 10, 0, 10, 0, 0, wib).Add(at)
		require.NoError(t, jobs.DailyAttendanceSummary(ctx))
	}
	require.Len(t, sink.items, 1)
	assert.Equal(t, "2025-03-09", sink.items[0].Data["date"])

	now = time.Date(2025, 3, 11, 1, 20, 0, 0, wib)
	require.NoError(t, jobs.DailyAttendanceSummary(ctx))
	require.Len(t, sink.items, 2)
	assert.Equal(t, "2025-03-10", sink.items[1].Data["date"])
}

func TestDailyAttendanceSummary_CatchesUpAfterLateTick(t *testing.T) {
	sink := &collectSink{}
	jobs := newJobs(time.Date(2025, 3, 10, 1, 2, 0, 0, wib), sink)

	require.NoError(t, jobs.DailyAttendanceSummary(context.Background()))
	require.Len(t, sink.items, 1)
	assert.Equal(t, "2025-03-09", sink.items[0].Data["date"])
}

func TestAttendanceJobs_SharedLedgerSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	now := time.Date(2025, 3, 10, 0, 5, 0, 0, wib)

	first := &collectSink{}
	before := newJobs(now, first)
	before.ledger = ledger
	require.NoError(t, before.DailyAttendanceSummary(ctx))
	require.NoError(t, before.RemindMissingCheckOuts(ctx))

	second := &collectSink{}
	after := newJobs(now.Add(10*time.Minute), second)
	after.ledger = ledger
	require.NoError(t, after.DailyAttendanceSummary(ctx))
	require.NoError(t, after.RemindMissingCheckOuts(ctx))

	assert.Len(t, first.items, 2)
	assert.Empty(t, second.items)
}

func TestRemindMissingCheckOuts(t *testing.T) {
	sink := &collectSink{}
	jobs := newJobs(time.Date(2025, 3, 10, 0, 5, 0, 0, wib), sink)

	require.NoError(t, jobs.RemindMissingCheckOuts(context.Background()))

	require.Len(t, sink.items, 1)
	assert.Equal(t, "EMP-002", sink.items[0].EmployeeID)
	assert.Equal(t, "b", sink.items[0].Data["attendance_id"])
}

func TestScheduler_RunOnceAndRun(t *testing.T) {
	s := NewScheduler()
	calls := make(chan string, 10)
	s.AddJob("job", time.Hour, func(ctx context.Context) error {
		calls <- "job"
		return nil
	})

	s.RunOnce(context.Background())
	assert.Len(t, calls, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return len(calls) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
