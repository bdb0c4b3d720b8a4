package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/schedule"
)

const clockLayout = "15:04:05"

// SessionStatus is the state of one employee's day, computed once per query.
type SessionStatus struct {
	State       attendance.SessionState
	Event       *attendance.SessionEvent
	CanCheckIn  bool
	CanCheckOut bool
}

type sessionKey struct {
	employeeID string
	date       string
}

// Session drives the self-service check-in/check-out flow. Today's events
// are kept in memory; any other day is reconstructed from the store's
// records on demand.
type Session struct {
	store    *Store
	calendar schedule.ShiftCalendar
	loc      *time.Location
	now      func() time.Time

	mu     sync.Mutex
	events map[sessionKey]attendance.SessionEvent
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithSessionClock overrides the clock used to decide "now" and "today".
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func NewSession(store *Store, calendar schedule.ShiftCalendar, loc *time.Location, opts ...SessionOption) *Session {
	if loc == nil {
		loc = time.Local
	}
	s := &Session{
		store:    store,
		calendar: calendar,
		loc:      loc,
		now:      time.Now,
		events:   make(map[sessionKey]attendance.SessionEvent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status reports today's state for employeeID.
func (s *Session) Status(ctx context.Context, employeeID string) (SessionStatus, error) {
	if employeeID == "" {
		return SessionStatus{}, attendance.ErrEmployeeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.statusAt(employeeID, s.now().In(s.loc)), nil
}

// CheckIn records the employee's arrival. It is only available while there
// is no record for today.
func (s *Session) CheckIn(ctx context.Context, employeeID string) (attendance.SessionEvent, error) {
	if employeeID == "" {
		return attendance.SessionEvent{}, attendance.ErrEmployeeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	if status := s.statusAt(employeeID, now); !status.CanCheckIn {
		return attendance.SessionEvent{}, fmt.Errorf("%w: %s", attendance.ErrCheckInUnavailable, status.State)
	}

	result := ClassifyCheckIn(now, s.calendar)
	timeIn := now.Format(clockLayout)
	record, err := s.store.Create(ctx, attendance.Record{
		EmployeeID: employeeID,
		Date:       attendance.TruncateDate(now),
		TimeIn:     &timeIn,
		Type:       attendance.TypeWork,
	})
	if err != nil {
		return attendance.SessionEvent{}, err
	}

	checkIn := now
	event := attendance.SessionEvent{
		EmployeeID:    employeeID,
		RecordID:      record.ID,
		Date:          record.Date,
		ActualCheckIn: &checkIn,
		LateMinutes:   result.LateMinutes,
		ShiftType:     result.ShiftType,
		Status:        result.Status,
		Title:         result.Title,
		Indicator:     Indicator(result.Status, result.ShiftType, true),
	}
	s.remember(event, now)
	return event, nil
}

// CheckOut records the employee's departure. It is only available after a
// check-in on the same day.
func (s *Session) CheckOut(ctx context.Context, employeeID string) (attendance.SessionEvent, error) {
	if employeeID == "" {
		return attendance.SessionEvent{}, attendance.ErrEmployeeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	status := s.statusAt(employeeID, now)
	if !status.CanCheckOut {
		return attendance.SessionEvent{}, fmt.Errorf("%w: %s", attendance.ErrCheckOutUnavailable, status.State)
	}
	event := *status.Event

	record, err := s.store.Get(event.RecordID)
	if err != nil {
		return attendance.SessionEvent{}, err
	}
	timeOut := now.Format(clockLayout)
	record.TimeOut = &timeOut
	if _, err := s.store.Update(ctx, record.ID, record); err != nil {
		return attendance.SessionEvent{}, err
	}

	checkOut := now
	event.ActualCheckOut = &checkOut
	event.EarlyMinutes = ClassifyCheckOut(now, s.calendar, event.ShiftType).EarlyMinutes
	event.Indicator = Indicator(event.Status, event.ShiftType, true)
	s.remember(event, now)
	return event, nil
}

// History returns one event per stored record of employeeID, most recent first.
func (s *Session) History(ctx context.Context, employeeID string) ([]attendance.SessionEvent, error) {
	if employeeID == "" {
		return nil, attendance.ErrEmployeeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	records := s.store.List(attendance.ListFilter{EmployeeID: employeeID})
	events := make([]attendance.SessionEvent, 0, len(records))
	for _, r := range records {
		events = append(events, s.eventFor(r, now))
	}
	return events, nil
}

// statusAt must be called with s.mu held.
func (s *Session) statusAt(employeeID string, now time.Time) SessionStatus {
	today := attendance.TruncateDate(now)
	record, ok := s.store.FindByEmployeeAndDate(employeeID, today)
	if !ok {
		delete(s.events, keyFor(employeeID, today))
		return SessionStatus{State: attendance.StateNoRecordToday, CanCheckIn: true}
	}

	event := s.eventFor(record, now)
	state := event.State()
	return SessionStatus{
		State:       state,
		Event:       &event,
		CanCheckOut: state == attendance.StateCheckedIn,
	}
}

// eventFor returns the cached event for record when it still agrees with
// the record's times, otherwise it rebuilds one.
func (s *Session) eventFor(record attendance.Record, now time.Time) attendance.SessionEvent {
	if cached, ok := s.events[keyFor(record.EmployeeID, record.Date)]; ok && s.agrees(cached, record) {
		return cached
	}
	event := s.reconstruct(record)
	s.remember(event, now)
	return event
}

// remember caches event if it belongs to the day of now and evicts entries
// from earlier days. Must be called with s.mu held.
func (s *Session) remember(event attendance.SessionEvent, now time.Time) {
	today := attendance.TruncateDate(now).Format(attendance.DateLayout)
	for key := range s.events {
		if key.date != today {
			delete(s.events, key)
		}
	}
	if key := keyFor(event.EmployeeID, event.Date); key.date == today {
		s.events[key] = event
	}
}

func (s *Session) agrees(event attendance.SessionEvent, record attendance.Record) bool {
	if event.RecordID != record.ID {
		return false
	}
	return sameClock(event.ActualCheckIn, record.TimeIn) && sameClock(event.ActualCheckOut, record.TimeOut)
}

func sameClock(t *time.Time, s *string) bool {
	if t == nil || s == nil || *s == "" {
		return t == nil && (s == nil || *s == "")
	}
	d, err := attendance.ParseTimeOfDay(*s)
	if err != nil {
		return false
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.Truncate(time.Second).Sub(midnight) == d || t.Truncate(time.Minute).Sub(midnight) == d
}

// reconstruct derives an event from a stored record alone.
func (s *Session) reconstruct(record attendance.Record) attendance.SessionEvent {
	event := attendance.SessionEvent{
		EmployeeID: record.EmployeeID,
		RecordID:   record.ID,
		Date:       record.Date,
		ShiftType:  attendance.ShiftFull,
	}

	checkIn, ok := s.instant(record.Date, record.TimeIn)
	if !ok {
		event.Status = attendance.StatusAbsent
		event.Title = absenceTitle(record.Type)
		event.Indicator = Indicator(event.Status, event.ShiftType, false)
		return event
	}

	result := ClassifyCheckIn(checkIn, s.calendar)
	event.ActualCheckIn = &checkIn
	event.LateMinutes = result.LateMinutes
	event.ShiftType = result.ShiftType
	event.Status = result.Status
	event.Title = result.Title
	event.Indicator = Indicator(result.Status, result.ShiftType, true)

	if checkOut, ok := s.instant(record.Date, record.TimeOut); ok {
		event.ActualCheckOut = &checkOut
		event.EarlyMinutes = ClassifyCheckOut(checkOut, s.calendar, event.ShiftType).EarlyMinutes
	}
	return event
}

// instant places a stored time of day on date in the session's timezone.
func (s *Session) instant(date time.Time, clock *string) (time.Time, bool) {
	if clock == nil || *clock == "" {
		return time.Time{}, false
	}
	d, err := attendance.ParseTimeOfDay(*clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc).Add(d), true
}

func absenceTitle(t attendance.RecordType) string {
	switch t {
	case attendance.TypeLeave:
		return "On leave"
	case attendance.TypeHoliday:
		return "Holiday"
	case attendance.TypeBusiness:
		return "Business trip"
	case attendance.TypeRemote:
		return "Remote"
	default:
		return "Absent"
	}
}

func keyFor(employeeID string, date time.Time) sessionKey {
	return sessionKey{employeeID: employeeID, date: date.Format(attendance.DateLayout)}
}
