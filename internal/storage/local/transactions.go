package local

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

const transactionColumns = `id, type, amount, category, date, description, project_id`

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		t            model.Transaction
		amount, date string
	)

	if err := row.Scan(&t.ID, &t.Type, &amount, &t.Category, &date, &t.Description, &t.ProjectID); err != nil {
		return model.Transaction{}, err
	}

	var err error

	if t.Amount, err = parseDecimal(amount); err != nil {
		return model.Transaction{}, err
	}

	if t.Date, err = parseDay(date); err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}

func transactionArgs(t model.Transaction) []any {
	return []any{
		t.ID, string(t.Type), t.Amount.String(), t.Category,
		model.FormatDay(t.Date), t.Description, t.ProjectID,
	}
}

func (s *Store) Transactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id")
	if err != nil {
		return nil, storage.Transport("listing transactions", err)
	}
	defer rows.Close()

	var txs []model.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Transport("listing transactions", err)
	}

	return txs, nil
}

func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) error {
	ok, err := s.insert(ctx, "adding transaction",
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		transactionArgs(t)...)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("adding transaction %s: %w", t.ID, model.ErrDuplicateKey)
	}

	return nil
}

func (s *Store) PutTransaction(ctx context.Context, t model.Transaction) error {
	return s.exec(ctx, "putting transaction",
		"INSERT OR REPLACE INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		transactionArgs(t)...)
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, patch storage.TransactionPatch) error {
	var set setClause

	if patch.Type != nil {
		set.add("type", string(*patch.Type))
	}

	if patch.Amount != nil {
		set.add("amount", patch.Amount.String())
	}

	if patch.Category != nil {
		set.add("category", *patch.Category)
	}

	if patch.Description != nil {
		set.add("description", *patch.Description)
	}

	if patch.ProjectID != nil {
		set.add("project_id", *patch.ProjectID)
	}

	return s.update(ctx, "updating transaction", "transactions", id, set)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.exec(ctx, "deleting transaction", "DELETE FROM transactions WHERE id = ?", id)
}
