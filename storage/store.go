// Package storage is the local persisted key-value store. Values are stored
// as JSON in a single sqlite table.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

const (
	KeyActiveBudgetID       = "activeBudgetId"
	KeyActiveBudgetCurrency = "activeBudgetCurrency"
)

var ErrNotFound = errors.New("key not found")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get decodes the value stored under key into out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}


type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func set(ctx context.Context, db execer, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(b))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, db execer, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// GetOr returns the value under key, or fallback when the key is absent.
func GetOr[T any](ctx context.Context, s *Store, key string, fallback T) (T, error) {
	var v T
	err := s.Get(ctx, key, &v)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return v, nil
}

func (s *Store) ActiveBudgetID(ctx context.Context) (string, error) {
	return GetOr(ctx, s, KeyActiveBudgetID, "")
}

func (s *Store) ActiveBudgetCurrency(ctx context.Context) (*ynab.CurrencyFormat, error) {
	return GetOr[*ynab.CurrencyFormat](ctx, s, KeyActiveBudgetCurrency, nil)
}

// SetActiveBudget stores the budget id and its currency together.
func (s *Store) SetActiveBudget(ctx context.Context, budgetID string, cf *ynab.CurrencyFormat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := set(ctx, tx, KeyActiveBudgetID, budgetID); err != nil {
		return err
	}
	if err := set(ctx, tx, KeyActiveBudgetCurrency, cf); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Info().Str("budget", budgetID).Msg("Active budget changed")
	return nil
}

// ClearActiveBudget forgets the active budget, for when it no longer exists.
func (s *Store) ClearActiveBudget(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, key := range []string{KeyActiveBudgetID, KeyActiveBudgetCurrency} {
		if err := del(ctx, tx, key); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Info().Msg("Active budget cleared")
	return nil
}
