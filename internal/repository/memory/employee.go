package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
)

// DemoEmployees matches the employee IDs used by the demo attendance records.
var DemoEmployees = []employee.Employee{
	{ID: "EMP-001", DisplayName: "Andi Pratama"},
	{ID: "EMP-002", DisplayName: "Siti Rahma"},
	{ID: "EMP-003", DisplayName: "Budi Santoso"},
	{ID: "EMP-004", DisplayName: "Dewi Lestari"},
	{ID: "EMP-005", DisplayName: "Rizky Hidayat"},
}

type employeeDirectory struct {
	employees []employee.Employee
}

func NewEmployeeDirectory(employees []employee.Employee) employee.Directory {
	return &employeeDirectory{employees: append([]employee.Employee(nil), employees...)}
}

// List implements employee.Directory.
func (d *employeeDirectory) List(ctx context.Context) ([]employee.Employee, error) {
	return append([]employee.Employee(nil), d.employees...), nil
}
