package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	appbilling "github.com/rwbiz/backend/internal/application/billing"
	appcapital "github.com/rwbiz/backend/internal/application/capital"
	appcompany "github.com/rwbiz/backend/internal/application/company"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testModel struct {
	ID        uint
	CompanyID uuid.UUID
	Name      string
}

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := Open(dialector, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	db, err := wrap(gormDB, "postgres")
	require.NoError(t, err)
	return db, mock, mockDB
}

func TestDatabase_ForCompany(t *testing.T) {
	t.Run("adds the company filter", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		companyID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE company_id = \$1`).
			WithArgs(companyID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name"}).
				AddRow(1, companyID.String(), "Kigali Coffee"))

		var rows []testModel
		require.NoError(t, db.ForCompany(companyID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, "Kigali Coffee", rows[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("chains with other conditions", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		companyID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE company_id = \$1 AND name = \$2`).
			WithArgs(companyID.String(), "Musanze").
			WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name"}))

		var rows []testModel
		require.NoError(t, db.ForCompany(companyID).Where("name = ?", "Musanze").Find(&rows).Error)
		assert.Empty(t, rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("panics without a company", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		assert.Panics(t, func() { db.ForCompany(uuid.Nil) })
	})
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		// postgres inserts return the generated id
		mock.ExpectQuery(`INSERT INTO "test_models"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return tx.Create(&testModel{CompanyID: uuid.New(), Name: "test"}).Error
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(context.Background(), func(*gorm.DB) error { return assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_StatsAndClose(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	stats := db.Stats()
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
	assert.Equal(t, "postgres", db.Driver())

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(db.Collector()))
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	mock.ExpectClose()
	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope(t *testing.T) {
	t.Run("billing repositories share the transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		scope := NewGormTransactionScope(db.DB)
		err := scope.Billing().Execute(t.Context(), func(repos appbilling.TransactionalRepositories) error {
			assert.NotNil(t, repos.InvoiceRepo())
			assert.NotNil(t, repos.ReceiptRepo())
			return nil
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("capital errors roll back", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		failure := errors.New("withdrawal exceeds locked amount")
		scope := NewGormTransactionScope(db.DB)
		err := scope.Capital().Execute(t.Context(), func(repos appcapital.TransactionalRepositories) error {
			assert.NotNil(t, repos.CapitalRepo())
			assert.NotNil(t, repos.WithdrawalRepo())
			return failure
		})
		assert.ErrorIs(t, err, failure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("company scope", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		scope := NewGormTransactionScope(db.DB)
		err := scope.Company().Execute(t.Context(), func(repos appcompany.TransactionalRepositories) error {
			assert.NotNil(t, repos.CompanyRepo())
			assert.NotNil(t, repos.MembershipRepo())
			return nil
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
