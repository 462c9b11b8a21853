package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations применяет встроенные миграции для драйвера.
// Используется отдельное соединение: m.Close закрывает и его.
func RunMigrations(driver, dsn string) error {
	m, err := newMigrator(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: не удалось применить миграции: %w", err)
	}
	return nil
}

// RollbackMigrations откатывает все миграции. Нужен для CLI.
func RollbackMigrations(driver, dsn string) error {
	m, err := newMigrator(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: не удалось откатить миграции: %w", err)
	}
	return nil
}

// MigrationVersion возвращает текущую версию схемы.
func MigrationVersion(driver, dsn string) (uint, bool, error) {
	m, err := newMigrator(driver, dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func newMigrator(driver, dsn string) (*migrate.Migrate, error) {
	sqlDriver, sourceDSN := driver, dsn
	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("migrate: не удалось создать каталог базы: %w", err)
		}
		sourceDSN = SQLiteDSN(dsn)
	}

	conn, err := sql.Open(sqlDriver, sourceDSN)
	if err != nil {
		return nil, fmt.Errorf("migrate: не удалось открыть базу: %w", err)
	}

	var instance database.Driver
	switch driver {
	case DriverPostgres:
		instance, err = postgres.WithInstance(conn, &postgres.Config{})
	case DriverSQLite:
		instance, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		err = fmt.Errorf("неизвестный драйвер %q", driver)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: не удалось создать драйвер: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: не удалось открыть источник миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: не удалось создать мигратор: %w", err)
	}
	return m, nil
}
