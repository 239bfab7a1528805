// Package backup writes and restores the full studio data set as a single
// JSON document.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	enc "github.com/MrJamesThe3rd/lensflow/internal/encoding"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

const (
	DatabaseName = "LensFlowDB"
	// FormatVersion is written to every export. Import accepts any version.
	FormatVersion = 5
)

type Repository interface {
	Projects(ctx context.Context) ([]model.Project, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	Notifications(ctx context.Context) ([]model.Notification, error)
	Assets(ctx context.Context) ([]model.Asset, error)

	PutProject(ctx context.Context, p model.Project) error
	PutTransaction(ctx context.Context, t model.Transaction) error
	PutNotification(ctx context.Context, n model.Notification) error
	PutAsset(ctx context.Context, a model.Asset) error
}

// Document is the on-disk backup format.
type Document struct {
	Projects      []model.Project      `json:"projects"`
	Transactions  []model.Transaction  `json:"transactions"`
	Notifications []model.Notification `json:"notifications"`
	Assets        []model.Asset        `json:"assets"`
	ExportDate    time.Time            `json:"exportDate"`
	Database      string               `json:"database"`
	Version       int                  `json:"version"`
}

// Summary counts the records written by an import.
type Summary struct {
	Projects      int `json:"projects"`
	Transactions  int `json:"transactions"`
	Notifications int `json:"notifications"`
	Assets        int `json:"assets"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// FileName is the conventional name of a backup taken at t.
func FileName(t time.Time) string {
	return "LensFlow_Backup_" + t.Format(time.DateOnly) + ".json"
}

func (s *Service) Snapshot(ctx context.Context) (*Document, error) {
	projects, err := s.repo.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	transactions, err := s.repo.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	notifications, err := s.repo.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	assets, err := s.repo.Assets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	return &Document{
		Projects:      nonNil(projects),
		Transactions:  nonNil(transactions),
		Notifications: nonNil(notifications),
		Assets:        nonNil(assets),
		ExportDate:    s.now().UTC(),
		Database:      DatabaseName,
		Version:       FormatVersion,
	}, nil
}

// Export writes an indented backup document to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")

	if err := e.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	return nil
}

// importDocument keeps projects as a pointer so a missing key can be told
// apart from an empty list.
type importDocument struct {
	Projects      *[]model.Project     `json:"projects"`
	Transactions  []model.Transaction  `json:"transactions"`
	Notifications []model.Notification `json:"notifications"`
	Assets        []model.Asset        `json:"assets"`
}

// Import upserts every record of a backup document by id, so importing the
// same file twice leaves the store unchanged. Records written before a
// failure stay written.
func (s *Service) Import(ctx context.Context, r io.Reader) (Summary, error) {
	var sum Summary

	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return sum, fmt.Errorf("detect encoding: %w", err)
	}

	var doc importDocument
	if err := json.NewDecoder(utf8r).Decode(&doc); err != nil {
		return sum, fmt.Errorf("decode backup: %w: %w", model.ErrValidation, err)
	}

	if doc.Projects == nil {
		return sum, fmt.Errorf("backup has no projects list: %w", model.ErrValidation)
	}

	for _, p := range *doc.Projects {
		if err := s.repo.PutProject(ctx, p); err != nil {
			return sum, fmt.Errorf("restore project %s: %w", p.ID, err)
		}

		sum.Projects++
	}

	for _, t := range doc.Transactions {
		if err := s.repo.PutTransaction(ctx, t); err != nil {
			return sum, fmt.Errorf("restore transaction %s: %w", t.ID, err)
		}

		sum.Transactions++
	}

	for _, n := range doc.Notifications {
		if err := s.repo.PutNotification(ctx, n); err != nil {
			return sum, fmt.Errorf("restore notification %s: %w", n.ID, err)
		}

		sum.Notifications++
	}

	for _, a := range doc.Assets {
		if err := s.repo.PutAsset(ctx, a); err != nil {
			return sum, fmt.Errorf("restore asset %s: %w", a.ID, err)
		}

		sum.Assets++
	}

	return sum, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
