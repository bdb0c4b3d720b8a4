package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/redis/go-redis/v9"
)

// DayLedger records which calendar days a job has already processed.
// Claim returns true only for the first caller of a job and day.
type DayLedger interface {
	Claim(ctx context.Context, job string, day time.Time) (bool, error)
}

// MemoryLedger keeps claims for the life of the process.
type MemoryLedger struct {
	mu   sync.Mutex
	last map[string]string
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{last: make(map[string]string)}
}

// Claim implements DayLedger. Only the most recent day per job is kept, and
// days at or before it are refused.
func (m *MemoryLedger) Claim(ctx context.Context, job string, day time.Time) (bool, error) {
	key := day.Format(attendance.DateLayout)

	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.last[job]; ok && key <= last {
		return false, nil
	}
	m.last[job] = key
	return true, nil
}

const (
	redisLedgerValue = "done"
	redisLedgerTTL   = 72 * time.Hour
)

// RedisLedger shares claims across restarts and replicas.
type RedisLedger struct {
	client *redis.Client
	prefix string
}

func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	return &RedisLedger{client: client, prefix: prefix}
}

func (r *RedisLedger) key(job string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, job, day.Format(attendance.DateLayout))
}

// Claim implements DayLedger.
func (r *RedisLedger) Claim(ctx context.Context, job string, day time.Time) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(job, day), redisLedgerValue, redisLedgerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s for %s: %w", job, day.Format(attendance.DateLayout), err)
	}
	return ok, nil
}
