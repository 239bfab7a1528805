package local

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

const assetColumns = `id, name, category, quantity, brand, condition, value, purchase_date, notes, created_at`

func scanAsset(row scanner) (model.Asset, error) {
	var (
		a                         model.Asset
		value, purchased, created string
	)

	if err := row.Scan(&a.ID, &a.Name, &a.Category, &a.Quantity, &a.Brand, &a.Condition,
		&value, &purchased, &a.Notes, &created); err != nil {
		return model.Asset{}, err
	}

	var err error

	if a.Value, err = parseDecimal(value); err != nil {
		return model.Asset{}, err
	}

	if a.PurchaseDate, err = parseDay(purchased); err != nil {
		return model.Asset{}, err
	}

	if a.CreatedAt, err = parseStamp(created); err != nil {
		return model.Asset{}, err
	}

	return a, nil
}

func assetArgs(a model.Asset) []any {
	return []any{
		a.ID, a.Name, a.Category, a.Quantity, a.Brand, string(a.Condition),
		a.Value.String(), model.FormatDay(a.PurchaseDate), a.Notes, stamp(a.CreatedAt),
	}
}

func (s *Store) Assets(ctx context.Context) ([]model.Asset, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+assetColumns+" FROM assets ORDER BY created_at DESC, id")
	if err != nil {
		return nil, storage.Transport("listing assets", err)
	}
	defer rows.Close()

	var assets []model.Asset

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}

		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Transport("listing assets", err)
	}

	return assets, nil
}

func (s *Store) AddAsset(ctx context.Context, a model.Asset) error {
	ok, err := s.insert(ctx, "adding asset",
		"INSERT INTO assets ("+assetColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		assetArgs(a)...)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("adding asset %s: %w", a.ID, model.ErrDuplicateKey)
	}

	return nil
}

func (s *Store) PutAsset(ctx context.Context, a model.Asset) error {
	return s.exec(ctx, "putting asset",
		"INSERT OR REPLACE INTO assets ("+assetColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		assetArgs(a)...)
}

func (s *Store) UpdateAsset(ctx context.Context, id string, patch storage.AssetPatch) error {
	var set setClause

	if patch.Name != nil {
		set.add("name", *patch.Name)
	}

	if patch.Category != nil {
		set.add("category", *patch.Category)
	}

	if patch.Quantity != nil {
		set.add("quantity", *patch.Quantity)
	}

	if patch.Brand != nil {
		set.add("brand", *patch.Brand)
	}

	if patch.Condition != nil {
		set.add("condition", string(*patch.Condition))
	}

	if patch.Value != nil {
		set.add("value", patch.Value.String())
	}

	if patch.PurchaseDate != nil {
		set.add("purchase_date", model.FormatDay(*patch.PurchaseDate))
	}

	if patch.Notes != nil {
		set.add("notes", *patch.Notes)
	}

	return s.update(ctx, "updating asset", "assets", id, set)
}

func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	return s.exec(ctx, "deleting asset", "DELETE FROM assets WHERE id = ?", id)
}
