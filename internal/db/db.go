package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invtrack/internal/config"
	"invtrack/internal/logger"
	"invtrack/internal/model"
)

const slowQueryThreshold = 200 * time.Millisecond

// sqliteDefaults are added to a SQLite DSN that does not set them. SQLite
// ignores FOR UPDATE, so stock movements serialize on the IMMEDIATE write
// lock, and foreign keys are off unless enabled per connection.
var sqliteDefaults = []struct {
	keys  []string // accepted spellings, the first is added
	value string
}{
	{[]string{"_foreign_keys", "_fk"}, "1"},
	{[]string{"_txlock"}, "immediate"},
	{[]string{"_busy_timeout", "_timeout"}, "5000"},
}

// Open returns a connected GORM DB instance for the configured driver.
func Open(cfg config.DatabaseConfig, log *zap.Logger, level string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		dsn, err := SQLiteDSN(cfg.URL)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(log, logger.GormLevel(level), slowQueryThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// Saturating the pool blocks callers until a connection frees up.
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return gormDB, nil
}

// SQLiteDSN fills in the connection parameters the stock ledger relies on.
// Parameters already present are kept as given.
func SQLiteDSN(dsn string) (string, error) {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("parse sqlite dsn: %w", err)
	}
	for _, d := range sqliteDefaults {
		if !hasAny(query, d.keys) {
			query.Set(d.keys[0], d.value)
		}
	}
	return base + "?" + query.Encode(), nil
}

func hasAny(query url.Values, keys []string) bool {
	for _, k := range keys {
		if _, ok := query[k]; ok {
			return true
		}
	}
	return false
}

// Models lists the persisted entities in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Item{},
		&model.Movement{},
	}
}

// Migrate creates or updates the schema. With reset, existing tables are
// dropped first, dependents before their parents.
func Migrate(gormDB *gorm.DB, reset bool, log *zap.Logger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(models[i]); err != nil {
				log.Warn("failed to drop table (may not exist)", zap.Error(err))
			}
		}
	}

	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
