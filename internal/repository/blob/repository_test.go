package blob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/storage"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, employeeID, date string) attendance.Record {
	d, _ := attendance.ParseDate(date)
	return attendance.Record{ID: id, EmployeeID: employeeID, Date: d, Type: attendance.TypeWork}
}

func exerciseRepository(t *testing.T, repo attendance.Repository) {
	t.Helper()
	ctx := context.Background()

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, repo.Create(ctx, record("a", "EMP-001", "2025-03-06")))
	require.NoError(t, repo.Create(ctx, record("b", "EMP-001", "2025-03-07")))
	assert.Error(t, repo.Create(ctx, record("b", "EMP-002", "2025-03-07")))

	updated := record("a", "EMP-001", "2025-03-06")
	updated.Type = attendance.TypeLeave
	require.NoError(t, repo.Update(ctx, updated))
	assert.ErrorIs(t, repo.Update(ctx, record("zzz", "EMP-001", "2025-03-06")), attendance.ErrAttendanceNotFound)

	records, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, attendance.TypeLeave, records[1].Type)

	require.NoError(t, repo.Delete(ctx, "b"))
	assert.ErrorIs(t, repo.Delete(ctx, "b"), attendance.ErrAttendanceNotFound)

	records, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestRepository_Memory(t *testing.T) {
	exerciseRepository(t, NewAttendanceRepository(NewMemoryKV(nil)))
}

func TestRepository_MemorySeeded(t *testing.T) {
	repo := NewAttendanceRepository(NewMemoryKV(DemoRecords()))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 8)
}

func TestRepository_File(t *testing.T) {
	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	kv := NewFileKV(fs, "")

	exerciseRepository(t, NewAttendanceRepository(kv))

	// a second repository over the same file sees the same data
	records, err := NewAttendanceRepository(NewFileKV(fs, DefaultFilePath)).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRepository_KVFailure(t *testing.T) {
	repo := NewAttendanceRepository(failingKV{err: errors.New("quota exceeded")})

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
}

type failingKV struct{ err error }

func (f failingKV) Get(ctx context.Context) ([]byte, error)  { return nil, f.err }
func (f failingKV) Put(ctx context.Context, data []byte) error { return f.err }

func TestRedisKV(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	repo := NewAttendanceRepository(NewRedisKV(client, "hris:attendance"))

	existing := record("a", "EMP-001", "2025-03-06")
	existing.CreatedAt = time.Date(2025, 3, 6, 1, 0, 0, 0, time.UTC)
	stored, err := Encode([]attendance.Record{existing})
	require.NoError(t, err)

	created := record("b", "EMP-002", "2025-03-07")
	next, err := Encode([]attendance.Record{created, existing})
	require.NoError(t, err)

	mock.ExpectGet("hris:attendance").SetVal(string(stored))
	mock.ExpectSet("hris:attendance", string(next), 0).SetVal("OK")

	require.NoError(t, repo.Create(ctx, created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKV_Missing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	kv := NewRedisKV(client, "hris:attendance")

	mock.ExpectGet("hris:attendance").RedisNil()

	_, err := kv.Get(context.Background())
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKV_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewAttendanceRepository(NewRedisKV(client, "hris:attendance"))

	mock.ExpectGet("hris:attendance").SetErr(errors.New("connection reset"))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
