package notification

import (
	"context"
)

// Sink receives notifications. Implementations must not fail the caller;
// delivery problems are theirs to log.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(context.Context, Notification) {}

type actorKey struct{}

// WithActor records on ctx the employee performing the current operation.
func WithActor(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, actorKey{}, employeeID)
}

// ActorFrom returns the employee set by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
