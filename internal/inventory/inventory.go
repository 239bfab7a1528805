// Package inventory manages the studio's equipment list.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

//go:generate mockgen -source=inventory.go -destination=repository_mock.go -package=inventory

type Repository interface {
	Assets(ctx context.Context) ([]model.Asset, error)
	AddAsset(ctx context.Context, a model.Asset) error
	UpdateAsset(ctx context.Context, id string, patch storage.AssetPatch) error
	DeleteAsset(ctx context.Context, id string) error
}

type AssetParams struct {
	Name     string
	Category string
	// Quantity defaults to 1 when zero.
	Quantity     int
	Brand        string
	Condition    model.Condition
	Value        decimal.Decimal
	PurchaseDate time.Time
	Notes        string
}

func (p AssetParams) normalize() (AssetParams, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Notes = strings.TrimSpace(p.Notes)

	if p.Name == "" {
		return p, fmt.Errorf("asset name is required: %w", model.ErrValidation)
	}

	if p.Quantity < 0 {
		return p, fmt.Errorf("asset quantity must not be negative: %w", model.ErrValidation)
	}

	if p.Quantity == 0 {
		p.Quantity = 1
	}

	if p.Value.IsNegative() {
		return p, fmt.Errorf("asset value must not be negative: %w", model.ErrValidation)
	}

	if p.Condition == "" {
		p.Condition = model.ConditionGood
	}

	if !p.Condition.Valid() {
		return p, fmt.Errorf("unknown condition %q: %w", p.Condition, model.ErrValidation)
	}

	return p, nil
}

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return "ast-" + uuid.NewString() },
	}
}

func (s *Service) List(ctx context.Context) ([]model.Asset, error) {
	assets, err := s.repo.Assets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	return assets, nil
}

func (s *Service) Create(ctx context.Context, params AssetParams) (model.Asset, error) {
	params, err := params.normalize()
	if err != nil {
		return model.Asset{}, err
	}

	now := s.now()

	purchased := params.PurchaseDate
	if purchased.IsZero() {
		purchased = model.Day(now)
	}

	a := model.Asset{
		ID:           s.newID(),
		Name:         params.Name,
		Category:     params.Category,
		Quantity:     params.Quantity,
		Brand:        params.Brand,
		Condition:    params.Condition,
		Value:        params.Value,
		PurchaseDate: model.Day(purchased),
		Notes:        params.Notes,
		CreatedAt:    now,
	}

	if err := s.repo.AddAsset(ctx, a); err != nil {
		return model.Asset{}, fmt.Errorf("adding asset: %w", err)
	}

	return a, nil
}

// Update replaces every editable field of the asset.
func (s *Service) Update(ctx context.Context, id string, params AssetParams) error {
	params, err := params.normalize()
	if err != nil {
		return err
	}

	patch := storage.AssetPatch{
		Name:      &params.Name,
		Category:  &params.Category,
		Quantity:  &params.Quantity,
		Brand:     &params.Brand,
		Condition: &params.Condition,
		Value:     &params.Value,
		Notes:     &params.Notes,
	}

	if !params.PurchaseDate.IsZero() {
		day := model.Day(params.PurchaseDate)
		patch.PurchaseDate = &day
	}

	if err := s.repo.UpdateAsset(ctx, id, patch); err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteAsset(ctx, id); err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}

	return nil
}

// Import adds the items whose names are not in the inventory yet, comparing
// trimmed names case-insensitively, and returns how many were added.
func (s *Service) Import(ctx context.Context, items []AssetParams) (int, error) {
	existing, err := s.repo.Assets(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing assets: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[nameKey(a.Name)] = true
	}

	added := 0

	for _, item := range items {
		key := nameKey(item.Name)
		if key == "" || seen[key] {
			continue
		}

		if _, err := s.Create(ctx, item); err != nil {
			return added, err
		}

		seen[key] = true
		added++
	}

	return added, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
