package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/dbx"
	"github.com/materna-health/materna/internal/timex"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read metadata %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: failed to write metadata %q: %v", common.ErrorStorage, key, err)
	}
	return nil
}

func (r *SQLiteRepository) GetTime(ctx context.Context, key string) (time.Time, error) {
	value, err := r.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return timex.Parse(value)
}

func (r *SQLiteRepository) SetTime(ctx context.Context, key string, value time.Time) error {
	return r.Set(ctx, key, timex.Format(value))
}
