package blob

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_MigratesLegacyFields(t *testing.T) {
	data := []byte(`[
		{"id": "a", "employeeId": "EMP-001", "date": "2025-03-07", "timeIn": "08:00", "timeOut": "17:30", "hours": 9.5, "overtime": 1.5, "type": "work", "note": null},
		{"id": "b", "employeeId": "EMP-002", "date": "2025-03-07", "hoursWorked": 4, "overtimeHours": 0, "hours": 99, "type": "leave"}
	]`)

	records, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 9.5, records[0].HoursWorked)
	assert.Equal(t, 1.5, records[0].OvertimeHours)
	assert.Equal(t, "08:00", *records[0].TimeIn)
	assert.Nil(t, records[0].Note)

	// current names win over legacy ones
	assert.Equal(t, 4.0, records[1].HoursWorked)
	assert.Nil(t, records[1].TimeIn)
	assert.Equal(t, attendance.TypeLeave, records[1].Type)

	encoded, err := Encode(records)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), `"hours":`)
	assert.NotContains(t, string(encoded), `"overtime":`)
	assert.Contains(t, string(encoded), `"hoursWorked":9.5`)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`[{"id": "a", "date": "07/03/2025"}]`))
	assert.ErrorContains(t, err, "invalid date")

	records, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEncode_PreservesRecord(t *testing.T) {
	created := time.Date(2025, 3, 7, 1, 2, 3, 0, time.UTC)
	in := "08:30"
	note := "note"
	original := attendance.Record{
		ID: "a", EmployeeID: "EMP-001", Date: time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		TimeIn: &in, HoursWorked: 2.5, Type: attendance.TypeRemote, Note: &note,
		CreatedAt: created, UpdatedAt: created,
	}

	data, err := Encode([]attendance.Record{original})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded, 1)
	assert.Equal(t, original, decoded[0])
}

func TestDemoRecords(t *testing.T) {
	records, err := Decode(DemoRecords())
	require.NoError(t, err)

	assert.Len(t, records, 8)
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.EmployeeID)
	}
	assert.Equal(t, 9.25, records[0].HoursWorked)
}
