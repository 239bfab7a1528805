package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/lensflow/internal/backup"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/database"
	"github.com/MrJamesThe3rd/lensflow/internal/deadline"
	"github.com/MrJamesThe3rd/lensflow/internal/importer"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/ledger"
	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
	"github.com/MrJamesThe3rd/lensflow/internal/storage/local"
	"github.com/MrJamesThe3rd/lensflow/internal/storage/remote"
)

var ErrArchiveDisabled = errors.New("backup archive is not configured")

// localKey is the cache key of the single session of local mode, where one
// database file serves whoever uses the device.
const localKey = "local"

type Manager struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger

	// pool is the shared Postgres pool of remote mode.
	pool *sql.DB

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Manager)

func WithMetrics(m *metrics.Metrics) Option {
	return func(mg *Manager) { mg.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(mg *Manager) { mg.logger = l }
}

// NewManager prepares sessions for the configured backend. In remote mode it
// connects to Postgres right away.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	switch cfg.Storage.Mode {
	case config.StorageLocal:
	case config.StorageRemote:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to remote store: %w: %w", model.ErrTransport, err)
		}

		m.pool = db
	default:
		return nil, fmt.Errorf("unknown storage mode %q: %w", cfg.Storage.Mode, model.ErrValidation)
	}

	return m, nil
}

// Start returns the session of account, opening it on first use.
func (m *Manager) Start(ctx context.Context, account string) (*Session, error) {
	if account == "" {
		return nil, fmt.Errorf("account is required: %w", model.ErrValidation)
	}

	key := account
	if m.pool == nil {
		key = localKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s, nil
	}

	store, err := m.open(ctx, account)
	if err != nil {
		return nil, err
	}

	s, err := m.build(ctx, account, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	m.sessions[key] = s
	m.logger.Info("session started", "account", account, "storage", m.cfg.Storage.Mode)

	return s, nil
}

func (m *Manager) open(ctx context.Context, account string) (storage.Storage, error) {
	if m.pool != nil {
		s, err := remote.New(ctx, m.pool, account)
		if err != nil {
			return nil, err
		}

		return s, nil
	}

	s, err := local.Open(m.cfg.LocalDBPath())
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (m *Manager) build(ctx context.Context, account string, store storage.Storage) (*Session, error) {
	l, err := ledger.Open(ctx, store, ledger.WithMetrics(m.metrics))
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	s := &Session{
		Account:   account,
		Store:     store,
		Ledger:    l,
		Inventory: inventory.NewService(store),
		Backup:    backup.NewService(store),
		Importer:  importer.NewService(),
		Scanner: deadline.NewScanner(store,
			deadline.WithWindow(m.cfg.Deadline.WindowDays),
			deadline.WithLogger(m.logger.With("account", account)),
			deadline.WithMetrics(m.metrics),
		),
		logger: m.logger,
	}

	if m.cfg.ArchiveEnabled() {
		a, err := backup.NewArchive(ctx, backup.ArchiveConfig{
			Endpoint:  m.cfg.Archive.Endpoint,
			AccessKey: m.cfg.Archive.AccessKey,
			SecretKey: m.cfg.Archive.SecretKey,
			Bucket:    m.cfg.Archive.Bucket,
			UseSSL:    m.cfg.Archive.UseSSL,
		}, account)
		if err != nil {
			return nil, fmt.Errorf("opening backup archive: %w", err)
		}

		s.Archive = a
	}

	return s, nil
}

// Close releases every open session and the shared pool.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error

	for key, s := range m.sessions {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing session %s: %w", key, err))
		}

		delete(m.sessions, key)
	}

	if m.pool != nil {
		if err := m.pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing pool: %w", err))
		}
	}

	return errors.Join(errs...)
}
