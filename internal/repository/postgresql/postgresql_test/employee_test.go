package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeDirectory_List(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO employees (id, full_name, deleted_at) VALUES
			('emp-2', 'Siti Rahma', NULL),
			('emp-1', 'Andi Pratama', NULL),
			('emp-3', 'Former Staff', NOW())
	`)
	require.NoError(t, err)

	employees, err := postgresql.NewEmployeeDirectory(setup.DB).List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []employee.Employee{
		{ID: "emp-1", DisplayName: "Andi Pratama"},
		{ID: "emp-2", DisplayName: "Siti Rahma"},
	}, employees)
}
