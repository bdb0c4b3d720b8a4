package attendance

import (
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
)

// Aggregate folds records into live statistics. knownEmployees is reported
// as TotalEmployees only when records is empty.
func Aggregate(records []attendance.Record, knownEmployees int) attendance.Stats {
	stats := attendance.Stats{TotalRecords: len(records)}

	employees := make(map[string]struct{}, len(records))
	var hours, overtime float64
	for _, r := range records {
		employees[r.EmployeeID] = struct{}{}
		hours += r.HoursWorked
		overtime += r.OvertimeHours
		if r.Type == attendance.TypeWork && r.HasBothTimes() {
			stats.DaysWorked++
		}
	}

	stats.TotalEmployees = len(employees)
	if len(records) == 0 {
		stats.TotalEmployees = knownEmployees
	}
	stats.TotalHours = round2(hours)
	stats.TotalOvertime = round2(overtime)

	return stats
}
