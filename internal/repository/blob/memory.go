package blob

import (
	"context"
	_ "embed"
	"sync"
)

//go:embed seed/demo_records.json
var demoRecords []byte

// DemoRecords returns the embedded demo dataset. It uses the legacy
// hours/overtime field names.
func DemoRecords() []byte {
	return append([]byte(nil), demoRecords...)
}

// MemoryKV holds the collection in process memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryKV starts from seed, which may be nil for an empty collection.
func NewMemoryKV(seed []byte) *MemoryKV {
	return &MemoryKV{data: append([]byte(nil), seed...)}
}

func (m *MemoryKV) Get(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.data) == 0 {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryKV) Put(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = append([]byte(nil), data...)
	return nil
}
