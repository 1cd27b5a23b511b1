// Package database opens the backing store and applies schema migrations.
// The default driver is sqlite, matching the lightweight single-file store
// the application is designed around; postgres is supported for shared
// deployments and migrates through versioned SQL files.
package database

import (
	"fmt"
	"time"

	"grana/internal/config"
	"grana/internal/logger"
	"grana/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// allModels is the list of all GORM models, migrated in dependency order.
var allModels = []interface{}{
	&models.User{},
	&models.BudgetCategory{},
	&models.BudgetExpense{},
	&models.Transaction{},
	&models.Goal{},
	&models.Investment{},
	&models.GoalAllocation{},
}

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *config.Config
}

// NewManager opens a database connection for the configured driver.
func NewManager(cfg *config.Config) (*Manager, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	case "postgres":
		db, err = gorm.Open(postgres.Open(postgresDSN(cfg)), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, config: cfg}, nil
}

// Migrate brings the schema up to date. Sqlite auto-migrates from the
// model definitions; postgres applies the versioned SQL files in
// migrations/ so deployed schemas stay reviewable.
func (m *Manager) Migrate() error {
	log := logger.Get()
	log.Info("Running database migrations...")

	if m.config.DBDriver == "sqlite" {
		if err := m.db.AutoMigrate(allModels...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Info("Database migrations completed successfully")
		return nil
	}

	mig, err := migrate.New("file://migrations", postgresURL(m.config))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			log.Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

func postgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func postgresURL(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
}
