// Package session binds an account to its storage backend and the engines
// that run on top of it. The backend is chosen once, from configuration;
// nothing above this package branches on it.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/lensflow/internal/backup"
	"github.com/MrJamesThe3rd/lensflow/internal/deadline"
	"github.com/MrJamesThe3rd/lensflow/internal/importer"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/ledger"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

// Session holds one account's engines. It embeds a mutex because the ledger
// is not safe for concurrent use; callers serving several requests lock it
// for the duration of each.
type Session struct {
	sync.Mutex

	Account   string
	Store     storage.Storage
	Ledger    *ledger.Ledger
	Inventory *inventory.Service
	Backup    *backup.Service
	Importer  *importer.Service
	Scanner   *deadline.Scanner
	// Archive is nil when no object store is configured.
	Archive *backup.Archive

	logger *slog.Logger
}

// Refresh reloads the ledger from storage. Other processes may write to the
// same store, so lock holders refresh before changing balances.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.Ledger.Reload(ctx); err != nil {
		return fmt.Errorf("refreshing ledger: %w", err)
	}

	return nil
}

// Scan runs the deadline scanner when notifications are enabled in st.
// With notifications off it reports the current state and touches nothing.
func (s *Session) Scan(ctx context.Context, st settings.Settings) (deadline.Result, error) {
	if !st.NotificationsEnabled {
		return deadline.Result{
			Projects:      s.Ledger.Projects(),
			Notifications: s.Ledger.Notifications(),
		}, nil
	}

	res, err := s.Ledger.ScanDeadlines(ctx, s.Scanner)
	if err != nil {
		return res, fmt.Errorf("scanning deadlines: %w", err)
	}

	if res.Failures > 0 {
		s.logger.Warn("deadline scan finished with failures", "account", s.Account, "failures", res.Failures)
	}

	return res, nil
}

// ImportBackup restores a backup document and reloads the ledger, even when
// the import stopped halfway.
func (s *Session) ImportBackup(ctx context.Context, r io.Reader) (backup.Summary, error) {
	sum, err := s.Backup.Import(ctx, r)

	if rerr := s.Ledger.Reload(ctx); rerr != nil {
		s.logger.Error("failed to reload ledger after backup import", "account", s.Account, "error", rerr)
	}

	return sum, err
}

// RestoreArchive imports the archived backup stored under key, or the newest
// one when key is empty.
func (s *Session) RestoreArchive(ctx context.Context, key string) (backup.Summary, error) {
	if s.Archive == nil {
		return backup.Summary{}, ErrArchiveDisabled
	}

	sum, err := s.Archive.Restore(ctx, s.Backup, key)

	if rerr := s.Ledger.Reload(ctx); rerr != nil {
		s.logger.Error("failed to reload ledger after archive restore", "account", s.Account, "error", rerr)
	}

	return sum, err
}

// ArchiveBackup uploads the current data set and returns its object key.
func (s *Session) ArchiveBackup(ctx context.Context) (string, error) {
	if s.Archive == nil {
		return "", ErrArchiveDisabled
	}

	return s.Archive.Upload(ctx, s.Backup)
}

// ImportGears reads a gear sheet and adds the assets not already listed.
func (s *Session) ImportGears(ctx context.Context, r io.Reader) (int, error) {
	items, err := s.Importer.Import(importer.SourceGears, r)
	if err != nil {
		return 0, fmt.Errorf("parsing gear sheet: %w", err)
	}

	return s.Inventory.Import(ctx, items)
}

// SeedGears adds the built-in equipment list.
func (s *Session) SeedGears(ctx context.Context) (int, error) {
	items, err := s.Importer.Seed()
	if err != nil {
		return 0, fmt.Errorf("parsing seed list: %w", err)
	}

	return s.Inventory.Import(ctx, items)
}

// ClearAllData wipes every collection of the account and empties the ledger.
func (s *Session) ClearAllData(ctx context.Context) error {
	if err := s.Store.ClearAllData(ctx); err != nil {
		return fmt.Errorf("clearing data: %w", err)
	}

	return s.Ledger.Reload(ctx)
}
