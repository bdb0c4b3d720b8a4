package employee

import "context"

// Directory lists the employees known to the organisation. The attendance
// core only reads it.
type Directory interface {
	List(ctx context.Context) ([]Employee, error)
}
