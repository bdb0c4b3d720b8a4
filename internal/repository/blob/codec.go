package blob

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
)

// document is the persisted shape of one record. hours and overtime are the
// legacy names of hoursWorked and overtimeHours and are only ever read.
type document struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	Date           string     `json:"date"`
	TimeIn         *string    `json:"timeIn"`
	TimeOut        *string    `json:"timeOut"`
	HoursWorked    *float64   `json:"hoursWorked,omitempty"`
	OvertimeHours  *float64   `json:"overtimeHours,omitempty"`
	LegacyHours    *float64   `json:"hours,omitempty"`
	LegacyOvertime *float64   `json:"overtime,omitempty"`
	Type           string     `json:"type"`
	Note           *string    `json:"note"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Decode parses a persisted collection, migrating legacy field names.
// An empty blob is an empty collection.
func Decode(data []byte) ([]attendance.Record, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var docs []document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance blob: %w", err)
	}

	records := make([]attendance.Record, 0, len(docs))
	for i, d := range docs {
		date, err := attendance.ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("decode attendance blob: record %d has invalid date %q", i, d.Date)
		}

		r := attendance.Record{
			ID:         d.ID,
			EmployeeID: d.EmployeeID,
			Date:       date,
			TimeIn:     d.TimeIn,
			TimeOut:    d.TimeOut,
			Type:       attendance.RecordType(d.Type),
			Note:       d.Note,
		}
		if r.Type == "" {
			r.Type = attendance.TypeWork
		}

		switch {
		case d.HoursWorked != nil:
			r.HoursWorked = *d.HoursWorked
		case d.LegacyHours != nil:
			r.HoursWorked = *d.LegacyHours
		}
		switch {
		case d.OvertimeHours != nil:
			r.OvertimeHours = *d.OvertimeHours
		case d.LegacyOvertime != nil:
			r.OvertimeHours = *d.LegacyOvertime
		}

		if d.CreatedAt != nil {
			r.CreatedAt = d.CreatedAt.UTC()
		}
		if d.UpdatedAt != nil {
			r.UpdatedAt = d.UpdatedAt.UTC()
		}
		records = append(records, r)
	}

	return records, nil
}

// Encode serialises records using the current field names only.
func Encode(records []attendance.Record) ([]byte, error) {
	docs := make([]document, 0, len(records))
	for _, r := range records {
		hours, overtime := r.HoursWorked, r.OvertimeHours
		d := document{
			ID:            r.ID,
			EmployeeID:    r.EmployeeID,
			Date:          r.Date.Format(attendance.DateLayout),
			TimeIn:        r.TimeIn,
			TimeOut:       r.TimeOut,
			HoursWorked:   &hours,
			OvertimeHours: &overtime,
			Type:          string(r.Type),
			Note:          r.Note,
		}
		if !r.CreatedAt.IsZero() {
			created := r.CreatedAt.UTC()
			d.CreatedAt = &created
		}
		if !r.UpdatedAt.IsZero() {
			updated := r.UpdatedAt.UTC()
			d.UpdatedAt = &updated
		}
		docs = append(docs, d)
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode attendance blob: %w", err)
	}
	return data, nil
}
