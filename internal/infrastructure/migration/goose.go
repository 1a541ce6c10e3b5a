package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/shared/logger"
)

//go:embed scripts/*.sql
var scriptsFS embed.FS

const (
	scriptsDir = "scripts"
	// SourceDir is where `migrate create` writes new scripts, relative to
	// the repository root.
	SourceDir = "internal/infrastructure/migration/scripts"
)

var gooseMu sync.Mutex

// Migrator applies the embedded SQL scripts with goose. goose keeps its
// dialect and filesystem in package state, so calls are serialized.
type Migrator struct {
	dialect string
	logger  logger.Interface
}

func NewMigrator(dialect string, log logger.Interface) *Migrator {
	if dialect == "" {
		dialect = "mysql"
	}
	return &Migrator{dialect: dialect, logger: log.With("component", "migration.goose")}
}

func (m *Migrator) with(db *gorm.DB, fn func(sqlDB *sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scriptsFS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(sqlDB)
}

func (m *Migrator) Up(db *gorm.DB) error {
	return m.with(db, func(sqlDB *sql.DB) error {
		from, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		m.logger.Infow("starting migration", "version", from)

		if err := goose.Up(sqlDB, scriptsDir); err != nil {
			m.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		to, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}
		m.logger.Infow("migration completed", "from_version", from, "to_version", to)
		return nil
	})
}

func (m *Migrator) Down(db *gorm.DB, steps int) error {
	return m.with(db, func(sqlDB *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.Down(sqlDB, scriptsDir); err != nil {
				m.logger.Errorw("down migration failed", "error", err, "step", i+1)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		m.logger.Infow("down migration completed", "steps", steps)
		return nil
	})
}

func (m *Migrator) Version(db *gorm.DB) (int64, error) {
	var version int64
	err := m.with(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Status prints applied and pending scripts through goose's logger.
func (m *Migrator) Status(db *gorm.DB) error {
	return m.with(db, func(sqlDB *sql.DB) error {
		if err := goose.Status(sqlDB, scriptsDir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

// Create writes an empty SQL script into dir.
func Create(dir, name string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(nil)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}

// Embedded lists the versions of the bundled scripts in order.
func Embedded() ([]int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scriptsFS)
	defer goose.SetBaseFS(nil)

	migrations, err := goose.CollectMigrations(scriptsDir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to collect migrations: %w", err)
	}
	versions := make([]int64, 0, len(migrations))
	for _, mig := range migrations {
		versions = append(versions, mig.Version)
	}
	return versions, nil
}
