// Package internal provides the application wiring shared by every command.
package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/vault"
)

// App holds the constructed dependency graph for one command run.
type App struct {
	Config *Config
	Logger *slog.Logger
	Store  storage.Provider
	DB     *index.DB
	Vault  *vault.Service

	clock clockFunc
}

// NewApp wires logging, storage, the search index, and the vault service
// from the given options. The vault directory must be configured; it is
// created when missing.
func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	if a.Config == nil {
		a.Config = NewDefaultConfig()
	}
	cfg := a.Config

	if a.Logger == nil {
		// Logs go to stderr so command output on stdout stays pipeable.
		a.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(a.Logger)

	if err := cfg.RequireVault(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	a.Store = store

	dbPath := cfg.SQLite.Path
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Vault.Path, ".ansuz-index.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	db, err := index.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	a.DB = db

	var vopts []vault.Option
	if a.clock != nil {
		vopts = append(vopts, vault.WithClock(a.clock))
	}
	a.Vault = vault.NewService(store, db, a.Logger, vopts...)

	return a, nil
}

// SyncIndex reconciles the search index with the vault directory.
func (a *App) SyncIndex() error {
	return index.Sync(a.DB, a.Store, a.Logger)
}

// Close releases the index database.
func (a *App) Close() error {
	return a.DB.Close()
}
