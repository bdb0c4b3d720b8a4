package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/google/uuid"
)

var ErrStoreNotInitialized = errors.New("attendance store is not initialized")

// Store owns the in-memory collection of attendance records. All mutation
// goes through Create, Update and Delete, each of which stages the new
// collection, awaits the repository and only then commits it.
type Store struct {
	repo      attendance.Repository
	directory employee.Directory
	sink      notification.Sink
	now       func() time.Time
	newID     func() string

	writeMu sync.Mutex // one in-flight write at a time

	mu      sync.RWMutex
	records []attendance.Record // never mutated in place
	loaded  bool
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

func NewStore(repo attendance.Repository, directory employee.Directory, sink notification.Sink, opts ...StoreOption) *Store {
	if sink == nil {
		sink = notification.Discard
	}
	s := &Store{
		repo:      repo,
		directory: directory,
		sink:      sink,
		now:       time.Now,
		newID:     func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the collection from the repository. It must be called before
// any other operation and may be called again to reload.
func (s *Store) Init(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		return &attendance.PersistenceError{Op: "load", Err: err}
	}

	loaded := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		loaded = append(loaded, derive(r))
	}

	s.mu.Lock()
	s.records = loaded
	s.loaded = true
	s.mu.Unlock()

	slog.Info("Attendance store loaded", "records", len(loaded))
	return nil
}

// List returns a copy of the records matching filter, in collection order.
func (s *Store) List(filter attendance.ListFilter) []attendance.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]attendance.Record, 0, len(s.records))
	for _, r := range s.records {
		if filter.Matches(r) {
			result = append(result, r)
		}
	}
	return result
}

// Get returns one record by ID.
func (s *Store) Get(id string) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.records, id); i >= 0 {
		return s.records[i], nil
	}
	return attendance.Record{}, &attendance.NotFoundError{ID: id}
}

// FindByEmployeeAndDate returns the record for employeeID on date, if any.
func (s *Store) FindByEmployeeAndDate(employeeID string, date time.Time) (attendance.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findByEmployeeAndDate(s.records, employeeID, attendance.TruncateDate(date))
}

// Create adds a new record. It fails with a DuplicateRecordError when the
// employee already has a record on that date.
func (s *Store) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.snapshot()
	if err != nil {
		return attendance.Record{}, err
	}

	record = derive(record)
	if _, exists := findByEmployeeAndDate(current, record.EmployeeID, record.Date); exists {
		dupErr := &attendance.DuplicateRecordError{
			EmployeeID:   record.EmployeeID,
			EmployeeName: s.employeeName(ctx, record.EmployeeID),
			Date:         record.Date,
		}
		s.notify(ctx, notification.SeverityError, dupErr.Error(), record)
		return attendance.Record{}, dupErr
	}

	now := s.now().UTC()
	record.ID = s.newID()
	record.CreatedAt = now
	record.UpdatedAt = now

	staged := make([]attendance.Record, 0, len(current)+1)
	staged = append(staged, record)
	staged = append(staged, current...)

	s.notify(ctx, notification.SeverityLoading, "Saving attendance record", record)
	if err := s.repo.Create(ctx, record); err != nil {
		return attendance.Record{}, s.fail(ctx, "create", err, record)
	}
	s.commit(staged)

	s.notify(ctx, notification.SeveritySuccess, fmt.Sprintf("Attendance for %s on %s saved",
		s.displayName(ctx, record.EmployeeID), record.Date.Format(attendance.DateLayout)), record)
	return record, nil
}

// Update replaces the record with the given ID. The per-day uniqueness
// invariant is not re-checked.
func (s *Store) Update(ctx context.Context, id string, record attendance.Record) (attendance.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.snapshot()
	if err != nil {
		return attendance.Record{}, err
	}

	i := indexOf(current, id)
	if i < 0 {
		notFound := &attendance.NotFoundError{ID: id}
		s.notify(ctx, notification.SeverityError, notFound.Error(), attendance.Record{ID: id})
		return attendance.Record{}, notFound
	}

	record = derive(record)
	record.ID = id
	record.CreatedAt = current[i].CreatedAt
	record.UpdatedAt = s.now().UTC()

	staged := make([]attendance.Record, len(current))
	copy(staged, current)
	staged[i] = record

	s.notify(ctx, notification.SeverityLoading, "Updating attendance record", record)
	if err := s.repo.Update(ctx, record); err != nil {
		return attendance.Record{}, s.fail(ctx, "update", err, record)
	}
	s.commit(staged)

	s.notify(ctx, notification.SeveritySuccess, "Attendance record updated", record)
	return record, nil
}

// Delete removes the record with the given ID. Deleting an unknown or
// already removed ID is an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.snapshot()
	if err != nil {
		return err
	}

	i := indexOf(current, id)
	if i < 0 {
		notFound := &attendance.NotFoundError{ID: id}
		s.notify(ctx, notification.SeverityError, notFound.Error(), attendance.Record{ID: id})
		return notFound
	}
	removed := current[i]

	staged := make([]attendance.Record, 0, len(current)-1)
	staged = append(staged, current[:i]...)
	staged = append(staged, current[i+1:]...)

	s.notify(ctx, notification.SeverityLoading, "Deleting attendance record", removed)
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err, removed)
	}
	s.commit(staged)

	s.notify(ctx, notification.SeveritySuccess, "Attendance record deleted", removed)
	return nil
}

func (s *Store) snapshot() ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrStoreNotInitialized
	}
	return s.records, nil
}

func (s *Store) commit(staged []attendance.Record) {
	s.mu.Lock()
	s.records = staged
	s.mu.Unlock()
}

// fail reports a repository failure. The staged collection is simply not
// committed, so memory keeps its pre-operation state.
func (s *Store) fail(ctx context.Context, op string, err error, record attendance.Record) error {
	perr := &attendance.PersistenceError{Op: op, Err: err}
	slog.Error("Failed to persist attendance record", "op", op, "record_id", record.ID, "error", err)
	s.notify(ctx, notification.SeverityError, "Failed to save attendance record: "+err.Error(), record)
	return perr
}

func (s *Store) notify(ctx context.Context, severity notification.Severity, message string, record attendance.Record) {
	data := map[string]interface{}{}
	if record.ID != "" {
		data["attendance_id"] = record.ID
	}
	if !record.Date.IsZero() {
		data["date"] = record.Date.Format(attendance.DateLayout)
	}
	s.sink.Notify(ctx, notification.Notification{
		Severity:   severity,
		Message:    message,
		EmployeeID: record.EmployeeID,
		Data:       data,
		CreatedAt:  s.now().UTC(),
	})
}

func (s *Store) employeeName(ctx context.Context, id string) string {
	if s.directory == nil {
		return ""
	}
	employees, err := s.directory.List(ctx)
	if err != nil {
		slog.Warn("Failed to resolve employee name", "employee_id", id, "error", err)
		return ""
	}
	return employee.NameOf(employees, id)
}

func (s *Store) displayName(ctx context.Context, id string) string {
	if name := s.employeeName(ctx, id); name != "" {
		return name
	}
	return "employee " + id
}

// derive normalises a record and recomputes its derived fields.
func derive(r attendance.Record) attendance.Record {
	r.Date = attendance.TruncateDate(r.Date)
	if r.Type == "" {
		r.Type = attendance.TypeWork
	}

	if r.HasBothTimes() {
		worked := ComputeWorkedHours(r.Date, r.TimeIn, r.TimeOut)
		r.HoursWorked = worked.Hours
		r.OvertimeHours = worked.Overtime
		return r
	}

	r.HoursWorked = round2(math.Max(0, r.HoursWorked))
	r.OvertimeHours = round2(math.Max(0, r.OvertimeHours))
	return r
}

func indexOf(records []attendance.Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func findByEmployeeAndDate(records []attendance.Record, employeeID string, date time.Time) (attendance.Record, bool) {
	for _, r := range records {
		if r.EmployeeID == employeeID && r.SameDay(date) {
			return r, true
		}
	}
	return attendance.Record{}, false
}
