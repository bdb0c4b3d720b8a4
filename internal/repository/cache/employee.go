package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const EmployeeDirectoryKey = "hris:employees:directory"

type cachedEmployee struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// employeeDirectory caches another directory in Redis. Concurrent misses
// share one upstream call.
type employeeDirectory struct {
	next employee.Directory
	rdb  redis.Cmdable
	ttl  time.Duration
	sf   singleflight.Group
}

func NewEmployeeDirectory(next employee.Directory, rdb redis.Cmdable, ttl time.Duration) employee.Directory {
	return &employeeDirectory{next: next, rdb: rdb, ttl: ttl}
}

// List implements employee.Directory.
func (d *employeeDirectory) List(ctx context.Context) ([]employee.Employee, error) {
	if cached, err := d.rdb.Get(ctx, EmployeeDirectoryKey).Result(); err == nil {
		var entries []cachedEmployee
		if json.Unmarshal([]byte(cached), &entries) == nil {
			return fromCache(entries), nil
		}
	} else if err != redis.Nil {
		slog.Warn("Employee directory cache read failed", "error", err)
	}

	v, err, _ := d.sf.Do(EmployeeDirectoryKey, func() (interface{}, error) {
		employees, err := d.next.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}

		if data, err := json.Marshal(toCache(employees)); err == nil {
			if err := d.rdb.Set(ctx, EmployeeDirectoryKey, string(data), d.ttl).Err(); err != nil {
				slog.Warn("Employee directory cache write failed", "error", err)
			}
		}
		return employees, nil
	})
	if err != nil {
		return nil, err
	}

	return append([]employee.Employee(nil), v.([]employee.Employee)...), nil
}

func toCache(employees []employee.Employee) []cachedEmployee {
	entries := make([]cachedEmployee, 0, len(employees))
	for _, e := range employees {
		entries = append(entries, cachedEmployee{ID: e.ID, DisplayName: e.DisplayName})
	}
	return entries
}

func fromCache(entries []cachedEmployee) []employee.Employee {
	employees := make([]employee.Employee, 0, len(entries))
	for _, e := range entries {
		employees = append(employees, employee.Employee{ID: e.ID, DisplayName: e.DisplayName})
	}
	return employees
}
