package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type attendanceRepository struct {
	db *database.DB
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id::text, employee_id, date,
			   to_char(time_in, 'HH24:MI:SS'), to_char(time_out, 'HH24:MI:SS'),
			   hours_worked::float8, overtime_hours::float8, type, note,
			   created_at, updated_at
		FROM attendance_records
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var r attendance.Record
		var recordType string
		if err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.Date,
			&r.TimeIn, &r.TimeOut,
			&r.HoursWorked, &r.OvertimeHours, &recordType, &r.Note,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		r.Type = attendance.RecordType(recordType)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, r attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, time_in, time_out,
			hours_worked, overtime_hours, type, note, created_at, updated_at
		) VALUES (
			$1::text::uuid, $2, $3, $4::text::time, $5::text::time, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := q.Exec(ctx, query,
		r.ID, r.EmployeeID, r.Date, r.TimeIn, r.TimeOut,
		r.HoursWorked, r.OvertimeHours, string(r.Type), r.Note, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("attendance record for employee %s on %s: %w",
				r.EmployeeID, r.Date.Format(attendance.DateLayout), attendance.ErrDuplicateRecord)
		}
		return fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return nil
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, r attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET employee_id = $2, date = $3, time_in = $4::text::time, time_out = $5::text::time,
			hours_worked = $6, overtime_hours = $7, type = $8, note = $9, updated_at = $10
		WHERE id = $1::text::uuid AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		r.ID, r.EmployeeID, r.Date, r.TimeIn, r.TimeOut,
		r.HoursWorked, r.OvertimeHours, string(r.Type), r.Note, r.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("attendance record for employee %s on %s: %w",
				r.EmployeeID, r.Date.Format(attendance.DateLayout), attendance.ErrDuplicateRecord)
		}
		return fmt.Errorf("failed to update attendance record with id %s: %w", r.ID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance record with id %s: %w", r.ID, attendance.ErrAttendanceNotFound)
	}

	return nil
}

// Delete implements attendance.Repository. Rows are soft deleted.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET deleted_at = NOW()
		WHERE id = $1::text::uuid AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record with id %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance record with id %s: %w", id, attendance.ErrAttendanceNotFound)
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
