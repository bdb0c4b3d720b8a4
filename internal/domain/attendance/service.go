package attendance

import (
	"context"
)

// AttendanceService defines the manual-entry and reporting operations
type AttendanceService interface {
	// CreateAttendance validates and stores a new record
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance validates and replaces an existing record
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetStats aggregates the records matching filter
	GetStats(ctx context.Context, filter AttendanceFilter) (StatsResponse, error)
}

// SessionService defines the self-service daily check-in/check-out flow
type SessionService interface {
	GetStatus(ctx context.Context, employeeID string) (SessionStatusResponse, error)
	CheckIn(ctx context.Context, employeeID string) (SessionEventResponse, error)
	CheckOut(ctx context.Context, employeeID string) (SessionEventResponse, error)
	GetHistory(ctx context.Context, employeeID string) ([]SessionEventResponse, error)
}
