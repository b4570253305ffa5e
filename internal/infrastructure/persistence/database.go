package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the connection pool shared by every repository
type Database struct {
	DB     *gorm.DB
	pool   *sql.DB
	driver string
}

// NewDatabase connects with the configured driver and checks the connection.
// A nil logger silences GORM.
func NewDatabase(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	driver := cfg.Driver
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres", "":
		driver = "postgres"
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := Open(dialector, gormLogger)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	d, err := wrap(db, driver)
	if err != nil {
		return nil, err
	}
	configurePool(d.pool, driver, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = d.pool.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return d, nil
}

func wrap(db *gorm.DB, driver string) (*Database, error) {
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get connection pool: %w", err)
	}
	return &Database{DB: db, pool: pool, driver: driver}, nil
}

func configurePool(pool *sql.DB, driver string, cfg *config.DatabaseConfig) {
	if driver == "sqlite" {
		// one writer, and an in-memory database exists per connection
		pool.SetMaxOpenConns(1)
		return
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// Open applies the GORM settings repositories depend on: driver errors
// translated to gorm sentinels, no implicit transactions and UTC timestamps.
func Open(dialector gorm.Dialector, gormLogger logger.Interface) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
}

// Driver is "postgres" or "sqlite"
func (d *Database) Driver() string { return d.driver }

// compositeUniqueIndexes span the company column of the embedded base model,
// which struct tags cannot express. They mirror the SQL migrations.
var compositeUniqueIndexes = []struct{ name, table, columns string }{
	{"idx_payroll_runs_company_period", "payroll_runs", "company_id, year, month"},
	{"idx_tax_filings_company_period", "tax_filings", "company_id, type, period_start, period_end"},
}

// AutoMigrate builds the schema from the models. Only sqlite and tests use
// it, postgres schemas come from the SQL migrations.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return err
	}
	for _, idx := range compositeUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// Ping backs the database health check
func (d *Database) Ping(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

func (d *Database) Stats() sql.DBStats {
	return d.pool.Stats()
}

// Collector exports the pool statistics as go_sql_* metrics
func (d *Database) Collector() prometheus.Collector {
	return collectors.NewDBStatsCollector(d.pool, d.driver)
}

func (d *Database) Close() error {
	return d.pool.Close()
}

// Transaction runs fn in a transaction bound to ctx. Returning an error
// rolls back.
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

// ForCompany scopes a query to one company. A nil id panics since it would
// otherwise read across tenants.
func (d *Database) ForCompany(companyID uuid.UUID) *gorm.DB {
	if companyID == uuid.Nil {
		panic("persistence: ForCompany called without a company")
	}
	return d.DB.Scopes(companyScope(companyID))
}
