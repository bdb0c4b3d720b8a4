package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
)

type fakeRepo struct {
	listFn   func(ctx context.Context) ([]attendance.Record, error)
	createFn func(ctx context.Context, r attendance.Record) error
	updateFn func(ctx context.Context, r attendance.Record) error
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeRepo) List(ctx context.Context) ([]attendance.Record, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) Create(ctx context.Context, r attendance.Record) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, r attendance.Record) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeDirectory struct {
	employees []employee.Employee
	err       error
}

func (f *fakeDirectory) List(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, f.err
}

type recordingSink struct {
	mu    sync.Mutex
	items []notification.Notification
}

func (s *recordingSink) Notify(ctx context.Context, n notification.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
}

func (s *recordingSink) severities() []notification.Severity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Severity, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, n.Severity)
	}
	return out
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{employees: []employee.Employee{
		{ID: "emp-1", DisplayName: "Andi Pratama"},
		{ID: "emp-2", DisplayName: "Siti Rahma"},
	}}
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("rec-%d", n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func mustDate(s string) time.Time {
	d, err := attendance.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
