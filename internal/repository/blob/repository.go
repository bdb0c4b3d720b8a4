package blob

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
)

// ErrBlobNotFound is returned by a KV that holds no collection yet.
var ErrBlobNotFound = errors.New("attendance blob not found")

// KV stores the whole attendance collection as a single value.
type KV interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}

type blobRepository struct {
	kv KV
	mu sync.Mutex // read-modify-write of the blob
}

func NewAttendanceRepository(kv KV) attendance.Repository {
	return &blobRepository{kv: kv}
}

// List implements attendance.Repository.
func (b *blobRepository) List(ctx context.Context) ([]attendance.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.load(ctx)
}

// Create implements attendance.Repository. New records go first so a reload
// keeps the most-recent-first order.
func (b *blobRepository) Create(ctx context.Context, r attendance.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return err
	}
	if indexOf(records, r.ID) >= 0 {
		return fmt.Errorf("attendance record with id %s already stored", r.ID)
	}

	return b.save(ctx, append([]attendance.Record{r}, records...))
}

// Update implements attendance.Repository.
func (b *blobRepository) Update(ctx context.Context, r attendance.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(records, r.ID)
	if i < 0 {
		return fmt.Errorf("attendance record with id %s: %w", r.ID, attendance.ErrAttendanceNotFound)
	}
	records[i] = r

	return b.save(ctx, records)
}

// Delete implements attendance.Repository.
func (b *blobRepository) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(records, id)
	if i < 0 {
		return fmt.Errorf("attendance record with id %s: %w", id, attendance.ErrAttendanceNotFound)
	}

	return b.save(ctx, append(records[:i], records[i+1:]...))
}

func (b *blobRepository) load(ctx context.Context) ([]attendance.Record, error) {
	data, err := b.kv.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read attendance blob: %w", err)
	}
	return Decode(data)
}

func (b *blobRepository) save(ctx context.Context, records []attendance.Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := b.kv.Put(ctx, data); err != nil {
		return fmt.Errorf("failed to write attendance blob: %w", err)
	}
	return nil
}

func indexOf(records []attendance.Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
