package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/sse"
)

// NotificationResponse is the JSON shape pushed to SSE subscribers and Kafka.
type NotificationResponse struct {
	Severity   string                 `json:"severity"`
	Message    string                 `json:"message"`
	EmployeeID string                 `json:"employee_id,omitempty"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

func toResponse(ctx context.Context, n notification.Notification) NotificationResponse {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return NotificationResponse{
		Severity:   string(n.Severity),
		Message:    n.Message,
		EmployeeID: n.EmployeeID,
		ActorID:    notification.ActorFrom(ctx),
		Data:       n.Data,
		CreatedAt:  createdAt.Format(time.RFC3339),
	}
}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, n notification.Notification) {
	level := slog.LevelInfo
	switch n.Severity {
	case notification.SeverityError:
		level = slog.LevelWarn
	case notification.SeverityLoading:
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, n.Message,
		"severity", n.Severity,
		"employee_id", n.EmployeeID,
		"actor_id", notification.ActorFrom(ctx),
		"data", n.Data,
	)
}

// HubSink pushes notifications to the SSE streams of the acting employee
// and of the employee the notification is about.
type HubSink struct {
	hub *sse.Hub
}

func NewHubSink(hub *sse.Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Notify(ctx context.Context, n notification.Notification) {
	s.hub.PublishToMany([]string{notification.ActorFrom(ctx), n.EmployeeID}, sse.Event{
		Event: "notification",
		Data:  toResponse(ctx, n),
	})
}

// Fanout delivers each notification to every sink in order.
type Fanout []notification.Sink

func (f Fanout) Notify(ctx context.Context, n notification.Notification) {
	for _, sink := range f {
		sink.Notify(ctx, n)
	}
}
