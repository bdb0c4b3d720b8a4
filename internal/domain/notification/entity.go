package notification

import (
	"time"
)

// Severity of a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityLoading Severity = "loading"
	SeverityInfo    Severity = "info"
)

// Notification is a toast-style message emitted by the attendance core.
type Notification struct {
	Severity   Severity
	Message    string
	EmployeeID string // subject of the message, empty for broadcast
	Data       map[string]interface{}
	CreatedAt  time.Time
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
