package repository

import "context"

// SequenceRepository hands out strictly increasing integers for named
// sequences. Next must be a single atomic read-modify-write against the store.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
