package attendance

import (
	"context"
)

// Repository is the persistence backend of the attendance store. Any CRUD
// collection that round-trips the full Record shape satisfies it.
type Repository interface {
	// List returns every non-deleted record, most recent first.
	List(ctx context.Context) ([]Record, error)

	Create(ctx context.Context, record Record) error

	// Update replaces the record with the same ID.
	Update(ctx context.Context, record Record) error

	Delete(ctx context.Context, id string) error
}
