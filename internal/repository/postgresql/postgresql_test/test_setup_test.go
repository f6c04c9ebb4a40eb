package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection used by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset.
// The schema must already be migrated (mage dbup).
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row written by the tests.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"annual_bonus_records",
		"payroll_sheets",
		"salary_advances",
		"sales_orders",
		"attendance_records",
		"employees",
		"positions",
		"tax_tables",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// InsertEmployee writes a minimal employee row and returns its id.
func (s *TestDatabaseSetup) InsertEmployee(t *testing.T, companyID, name string) string {
	t.Helper()

	var id string
	err := s.DB.QueryRow(context.Background(), `
		INSERT INTO employees (id, company_id, full_name, hire_date, full_salary, absence_deduction_rule, dependents)
		VALUES (uuidv7(), $1, $2, '2020-01-02', 3000, 'full_day', 0)
		RETURNING id
	`, companyID, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// Close closes the connection pool.
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
