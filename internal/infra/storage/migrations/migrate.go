package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// ErrDirtySchema предыдущая миграция упала на середине, нужен ручной force
var ErrDirtySchema = errors.New("migrations: dirty schema")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Up применяет все непримененные миграции схемы
func Up(db *sql.DB, logger Logger) error {
	source, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err := checkVersion(version, dirty, err); err != nil {
		logger.Warn("Migrations: %v", err)
		return err
	}
	logger.Info("Migrations: schema at version %d", version)
	return nil
}

// checkVersion dirty версия означает недокатанную миграцию; стартовать на такой схеме нельзя
func checkVersion(version uint, dirty bool, err error) error {
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w: schema version %d is dirty", ErrDirtySchema, version)
	}
	return nil
}
