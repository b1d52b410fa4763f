// Package repositories wires the per-table repositories to one SQLite handle
// and owns schema migration and transaction scoping.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/materna-health/materna/internal/dbx"
	"github.com/materna-health/materna/internal/migrations"
	"github.com/materna-health/materna/internal/repositories/checklists"
	"github.com/materna-health/materna/internal/repositories/contacts"
	"github.com/materna-health/materna/internal/repositories/events"
	"github.com/materna-health/materna/internal/repositories/metadata"
	"github.com/materna-health/materna/internal/repositories/outbox"
	"github.com/materna-health/materna/internal/repositories/profiles"
	"github.com/materna-health/materna/internal/repositories/tombstones"
	"github.com/materna-health/materna/internal/repositories/vitals"

	_ "modernc.org/sqlite"
)

// Repositories bundles every repository bound to the same DBTX so services
// can hold one dependency instead of eight.
type Repositories struct {
	Profiles   profiles.Repository
	Vitals     vitals.Repository
	Events     events.Repository
	Checklists checklists.Repository
	Contacts   contacts.Repository
	Outbox     outbox.Repository
	Tombstones tombstones.Repository
	Metadata   metadata.Repository

	db *sql.DB
}

func New(db *sql.DB) *Repositories {
	r := bind(db)
	r.db = db
	return r
}

func bind(db dbx.DBTX) *Repositories {
	return &Repositories{
		Profiles:   profiles.NewSQLiteRepository(db),
		Vitals:     vitals.NewSQLiteRepository(db),
		Events:     events.NewSQLiteRepository(db),
		Checklists: checklists.NewSQLiteRepository(db),
		Contacts:   contacts.NewSQLiteRepository(db),
		Outbox:     outbox.NewSQLiteRepository(db),
		Tombstones: tombstones.NewSQLiteRepository(db),
		Metadata:   metadata.NewSQLiteRepository(db),
	}
}

// WithTx runs fn against a Repositories view bound to a single transaction.
// A local write and its outbox job must land atomically, so services use
// this for every mutation.
func (r *Repositories) WithTx(ctx context.Context, fn func(ctx context.Context, txr *Repositories) error) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, bind(tx))
	})
}

// InitDatabase opens the SQLite database at dsn and applies embedded
// migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serializes access per connection; a single connection
	// avoids SQLITE_BUSY under concurrent repo use
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
