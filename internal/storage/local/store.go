// Package local persists studio data in an on-device SQLite database.
package local

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/lensflow/internal/database"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

type Store struct {
	db *sql.DB
}

var _ storage.Storage = (*Store)(nil)

// Open opens or creates the database file at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// setClause accumulates "col = ?" assignments for partial updates.
type setClause struct {
	cols []string
	args []any
}

func (c *setClause) add(col string, v any) {
	c.cols = append(c.cols, col+" = ?")
	c.args = append(c.args, v)
}

func (c *setClause) empty() bool {
	return len(c.cols) == 0
}

// update runs an UPDATE for the given id and maps zero affected rows to
// model.ErrNotFound.
func (s *Store) update(ctx context.Context, op, table, id string, set setClause) error {
	if set.empty() {
		return s.mustExist(ctx, op, table, id)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(set.cols, ", "))

	res, err := s.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return storage.Transport(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storage.Transport(op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, model.ErrNotFound)
	}

	return nil
}

func (s *Store) mustExist(ctx context.Context, op, table, id string) error {
	var one int

	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %s: %w", op, id, model.ErrNotFound)
	}

	if err != nil {
		return storage.Transport(op, err)
	}

	return nil
}

// insert runs an INSERT ... ON CONFLICT DO NOTHING and reports whether a row
// was written.
func (s *Store) insert(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, storage.Transport(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storage.Transport(op, err)
	}

	return n > 0, nil
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storage.Transport(op, err)
	}

	return nil
}

// ClearAllData wipes every collection in a single database transaction.
func (s *Store) ClearAllData(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Transport("clearing data", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "notifications", "projects", "assets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return storage.Transport("clearing "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Transport("clearing data", err)
	}

	return nil
}
