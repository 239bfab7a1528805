// Package remote persists studio data as per-account JSON documents in a
// hosted Postgres database.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

const (
	collProjects      = "projects"
	collTransactions  = "transactions"
	collNotifications = "notifications"
	collAssets        = "assets"
)

// Store scopes every document to a single account.
type Store struct {
	db      *sql.DB
	account string
}

var _ storage.Storage = (*Store)(nil)

// New applies the document schema and returns a store bound to account.
func New(ctx context.Context, db *sql.DB, account string) (*Store, error) {
	if account == "" {
		return nil, fmt.Errorf("opening remote store: %w: empty account", model.ErrValidation)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, storage.Transport("creating schema", err)
	}

	return &Store{db: db, account: account}, nil
}

// Close is a no-op: the pool is shared by every account and owned by the
// caller of New.
func (s *Store) Close() error {
	return nil
}

func list[T any](ctx context.Context, s *Store, op, collection string, limit int) ([]T, error) {
	query := `SELECT body FROM documents WHERE account_id = $1 AND collection = $2 ORDER BY sort_key DESC, id`
	args := []any{s.account, collection}

	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Transport(op, err)
	}
	defer rows.Close()

	var out []T

	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, storage.Transport(op, err)
		}

		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("%s: decoding document: %w", op, err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Transport(op, err)
	}

	return out, nil
}

// insert writes a new document and reports whether the id was free.
func (s *Store) insert(ctx context.Context, op, collection, id string, sortKey time.Time, v any) (bool, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("%s: encoding document: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (account_id, collection, id, body, sort_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, collection, id) DO NOTHING`,
		s.account, collection, id, body, sortKey)
	if err != nil {
		return false, storage.Transport(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storage.Transport(op, err)
	}

	return n > 0, nil
}

func (s *Store) put(ctx context.Context, op, collection, id string, sortKey time.Time, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encoding document: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (account_id, collection, id, body, sort_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, collection, id) DO UPDATE SET body = EXCLUDED.body, sort_key = EXCLUDED.sort_key`,
		s.account, collection, id, body, sortKey)
	if err != nil {
		return storage.Transport(op, err)
	}

	return nil
}

// merge shallow-merges fields into the stored document.
func (s *Store) merge(ctx context.Context, op, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		fields = map[string]any{}
	}

	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%s: encoding patch: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET body = body || $4::jsonb
		WHERE account_id = $1 AND collection = $2 AND id = $3`,
		s.account, collection, id, patch)
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

func (s *Store) remove(ctx context.Context, op, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE account_id = $1 AND collection = $2 AND id = $3`,
		s.account, collection, id)
	if err != nil {
		return storage.Transport(op, err)
	}

	return nil
}

func duplicate(op, id string, ok bool, err error) error {
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%s %s: %w", op, id, model.ErrDuplicateKey)
	}

	return nil
}

func (s *Store) ClearAllData(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE account_id = $1`, s.account)
	if err != nil {
		return storage.Transport("clearing data", err)
	}

	return nil
}
