package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationsTable records the ledger schema version inside the database.
const migrationsTable = "ledger_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema is returned when a previous migration stopped half way.
// The ledger refuses to read or append until the schema is repaired by hand.
var ErrDirtySchema = errors.New("ledger schema is dirty")

// migrateLedger brings the transactions table at dbPath to the latest
// schema and returns the resulting version. Applied versions are skipped,
// so stored transactions are never rewritten.
func migrateLedger(dbPath string) (uint, error) {
	// Own connection: closing the migrator closes it.
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open ledger database for migration: %w", err)
	}
	defer conn.Close()

	target, err := msqlite.WithInstance(conn, &msqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return 0, fmt.Errorf("prepare ledger migration target: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load ledger migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		return 0, fmt.Errorf("create ledger migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			return uint(dirtyErr.Version), fmt.Errorf("version %d: %w", dirtyErr.Version, ErrDirtySchema)
		}
		return 0, fmt.Errorf("migrate ledger schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read ledger schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("version %d: %w", version, ErrDirtySchema)
	}
	return version, nil
}
