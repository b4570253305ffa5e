// Package integration runs the service against a real PostgreSQL started
// with testcontainers. The schema comes from the SQL migrations.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/identity"
	"github.com/rwbiz/backend/internal/infrastructure/migration"
	"github.com/rwbiz/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// TestDB is a migrated PostgreSQL owned by one test. The container goes
// away with the test.
type TestDB struct {
	DB  *gorm.DB
	DSN string
	t   *testing.T
}

// NewTestDB skips in -short mode. Set TEST_DB_DEBUG to log every statement.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("rwbiz_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		// postgres restarts once after init, so wait for the second line
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start postgres")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	migrate(t, dsn)

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := persistence.Open(postgres.Open(dsn), logger.Default.LogMode(level))
	require.NoError(t, err, "connect postgres")
	pool, err := db.DB()
	require.NoError(t, err)
	pool.SetMaxOpenConns(5)
	t.Cleanup(func() { _ = pool.Close() })

	return &TestDB{DB: db, DSN: dsn, t: t}
}

func (tdb *TestDB) CreateUser(email, password, fullName string) *identity.User {
	tdb.t.Helper()
	u, err := identity.NewUser(email, password, fullName)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Save(context.Background(), u))
	return u
}

// CreateCompany stores an LTD with owner as its OWNER member
func (tdb *TestDB) CreateCompany(owner uuid.UUID, name, tin string, authorizedShares int64) *company.Company {
	tdb.t.Helper()
	c, err := company.NewCompany(owner, company.Profile{
		Name:             name,
		TIN:              tin,
		LegalForm:        company.LegalFormLTD,
		AuthorizedShares: authorizedShares,
	})
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormCompanyRepository(tdb.DB).Save(context.Background(), c))
	tdb.AddMember(c.ID, owner, company.RoleOwner)
	return c
}

func (tdb *TestDB) AddMember(companyID, userID uuid.UUID, role company.Role) {
	tdb.t.Helper()
	m, err := company.NewMembership(companyID, userID, role, nil)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormMembershipRepository(tdb.DB).Save(context.Background(), m))
}

// migrate applies every migration over its own connection, closed with the
// migrator
func migrate(t *testing.T, dsn string) {
	t.Helper()
	dir := findMigrationsPath()
	require.NotEmpty(t, dir, "migrations directory not found")

	m, err := migration.NewFromURL(dsn, dir, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()
	require.NoError(t, m.Up(), "apply migrations")
}

// findMigrationsPath walks up from this file to the repository's
// migrations directory
func findMigrationsPath() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	for dir := filepath.Dir(file); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}
