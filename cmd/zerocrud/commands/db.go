package commands

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/zerocrud/zerocrud/pkg/crud"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Contact is the demo record type managed by this CLI.
type Contact struct {
	ID    int64  `db:"id" json:"id" yaml:"id"`
	Name  string `db:"name" json:"name" yaml:"name" validate:"required"`
	Email string `db:"email" json:"email" yaml:"email" validate:"omitempty,email"`
	Phone string `db:"phone" json:"phone" yaml:"phone"`
}

// openDatabase opens the SQLite database behind --db.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// migrateDatabase applies the embedded schema migrations.
func migrateDatabase(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// newContactRepository builds the repository the commands operate on,
// honoring the --storage and --db flags. The returned closer releases the
// database session when one was opened.
func newContactRepository(ctx context.Context) (*crud.Repository[Contact], func() error, error) {
	noop := func() error { return nil }

	if storageName == string(crud.StorageMemory) {
		repo, err := crud.New[Contact](crud.WithStorage[Contact](crud.StorageMemory))
		return repo, noop, err
	}

	db, err := openDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []crud.Option[Contact]{crud.WithSession[Contact](db)}
	if storageName != "" {
		opts = append(opts, crud.WithStorage[Contact](crud.Storage(storageName)))
	}

	repo, err := crud.New[Contact](opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db.Close, nil
}
