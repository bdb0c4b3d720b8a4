package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
)

// RecordLister is the read side of the attendance store.
type RecordLister interface {
	List(filter attendance.ListFilter) []attendance.Record
}

const (
	JobDailySummary          = "daily_attendance_summary"
	JobRemindMissingCheckOut = "remind_missing_check_outs"

	// catchUpHours is how long after local midnight a day's run may still fire.
	catchUpHours = 6
)

type AttendanceJobs struct {
	records   RecordLister
	directory employee.Directory
	sink      notification.Sink
	ledger    DayLedger
	loc       *time.Location
	now       func() time.Time
}

// JobOption customises AttendanceJobs.
type JobOption func(*AttendanceJobs)

// WithDayLedger replaces the in-process ledger, e.g. with a RedisLedger so
// restarts do not repeat a day.
func WithDayLedger(ledger DayLedger) JobOption {
	return func(j *AttendanceJobs) { j.ledger = ledger }
}

func NewAttendanceJobs(
	records RecordLister,
	directory employee.Directory,
	sink notification.Sink,
	loc *time.Location,
	opts ...JobOption,
) *AttendanceJobs {
	if loc == nil {
		loc = time.Local
	}
	j := &AttendanceJobs{
		records:   records,
		directory: directory,
		sink:      sink,
		ledger:    NewMemoryLedger(),
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobDailySummary, 1*time.Hour, j.DailyAttendanceSummary)
	scheduler.AddJob(JobRemindMissingCheckOut, 1*time.Hour, j.RemindMissingCheckOuts)
}

// due claims yesterday for job when now is within the catch-up window after
// local midnight. It returns false once the day has been claimed.
func (j *AttendanceJobs) due(ctx context.Context, job string) (time.Time, bool, error) {
	now := j.now().In(j.loc)
	if now.Hour() >= catchUpHours {
		return time.Time{}, false, nil
	}
	yesterday := attendance.TruncateDate(now.AddDate(0, 0, -1))
	claimed, err := j.ledger.Claim(ctx, job, yesterday)
	if err != nil {
		return time.Time{}, false, err
	}
	return yesterday, claimed, nil
}

// DailyAttendanceSummary aggregates yesterday's records and broadcasts the
// totals as an info notification.
func (j *AttendanceJobs) DailyAttendanceSummary(ctx context.Context) error {
	if j.now().In(j.loc).Hour() >= catchUpHours {
		return nil
	}

	employees, err := j.directory.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	yesterday, ok, err := j.due(ctx, JobDailySummary)
	if err != nil || !ok {
		return err
	}

	slog.Info("Cron: Starting daily attendance summary job", "date", yesterday.Format(attendance.DateLayout))

	records := j.records.List(attendance.ListFilter{From: &yesterday, To: &yesterday})
	stats := attendanceService.Aggregate(records, len(employees))

	j.sink.Notify(ctx, notification.Notification{
		Severity: notification.SeverityInfo,
		Message: fmt.Sprintf("Attendance summary for %s: %d records, %.2f hours worked, %.2f overtime",
			yesterday.Format(attendance.DateLayout), stats.TotalRecords, stats.TotalHours, stats.TotalOvertime),
		Data: map[string]interface{}{
			"date":            yesterday.Format(attendance.DateLayout),
			"total_records":   stats.TotalRecords,
			"total_employees": stats.TotalEmployees,
			"total_hours":     stats.TotalHours,
			"total_overtime":  stats.TotalOvertime,
			"days_worked":     stats.DaysWorked,
		},
		CreatedAt: j.now().UTC(),
	})

	slog.Info("Cron: Daily attendance summary completed", "records", stats.TotalRecords)
	return nil
}

// RemindMissingCheckOuts notifies each employee whose record for yesterday
// has a check-in but no check-out.
func (j *AttendanceJobs) RemindMissingCheckOuts(ctx context.Context) error {
	yesterday, ok, err := j.due(ctx, JobRemindMissingCheckOut)
	if err != nil || !ok {
		return err
	}

	records := j.records.List(attendance.ListFilter{From: &yesterday, To: &yesterday})
	reminded := 0
	for _, r := range records {
		if r.TimeIn == nil || r.TimeOut != nil {
			continue
		}
		j.sink.Notify(ctx, notification.Notification{
			Severity:   notification.SeverityInfo,
			Message:    fmt.Sprintf("No check-out was recorded for %s. Please ask an administrator to complete the record.", r.Date.Format(attendance.DateLayout)),
			EmployeeID: r.EmployeeID,
			Data:       map[string]interface{}{"attendance_id": r.ID},
			CreatedAt:  j.now().UTC(),
		})
		reminded++
	}

	if reminded > 0 {
		slog.Info("Cron: Missing check-out reminders sent", "count", reminded)
	}
	return nil
}
