package employee

// Employee is the read-only directory view of an employee.
type Employee struct {
	ID          string
	DisplayName string
}

// NameOf resolves an employee ID to its display name, or "" when unknown.
func NameOf(employees []Employee, id string) string {
	for _, e := range employees {
		if e.ID == id {
			return e.DisplayName
		}
	}
	return ""
}

// Exists reports whether id is present in employees.
func Exists(employees []Employee, id string) bool {
	for _, e := range employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

type EmployeeResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
