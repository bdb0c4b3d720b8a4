package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	ErrDuplicateRecord    = errors.New("attendance record already exists for this employee and date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrPersistence        = errors.New("failed to persist attendance records")
	ErrInvalidTimeOfDay   = errors.New("time must be in HH:MM or HH:MM:SS format")

	// Self-service guards
	ErrCheckInUnavailable  = errors.New("check in is not available in the current state")
	ErrCheckOutUnavailable = errors.New("check out is not available in the current state")
	ErrEmployeeRequired    = errors.New("employee is required")
)

// DuplicateRecordError is returned by create when (employee, date) is taken.
type DuplicateRecordError struct {
	EmployeeID   string
	EmployeeName string
	Date         time.Time
}

func (e *DuplicateRecordError) Error() string {
	who := e.EmployeeName
	if who == "" {
		who = e.EmployeeID
	}
	return fmt.Sprintf("%s already has an attendance record on %s", who, e.Date.Format(DateLayout))
}

func (e *DuplicateRecordError) Is(target error) bool { return target == ErrDuplicateRecord }

// NotFoundError is returned by update and delete for an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("attendance record %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrAttendanceNotFound }

// PersistenceError wraps any failure from the backing store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s attendance record: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
