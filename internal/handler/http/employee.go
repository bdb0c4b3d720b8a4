package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	directory employee.Directory
}

func NewEmployeeHandler(directory employee.Directory) EmployeeHandler {
	return &employeeHandlerImpl{directory: directory}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.directory.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, employee.EmployeeResponse{ID: e.ID, DisplayName: e.DisplayName})
	}

	response.Success(w, result)
}
