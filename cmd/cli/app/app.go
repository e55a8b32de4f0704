// Package app wires the store, inventory and logger shared by every CLI command.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/config"
	"github.com/crucial707/dosasset/internal/db"
	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/repo"
)

type App struct {
	Config     config.Config
	Log        *zap.Logger
	Inv        *inventory.Inventory
	Downloader export.Downloader
	kv         repo.KV
}

// Open connects the configured store and loads the inventory.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	kv, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, log, kv)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return a, nil
}

// New builds an App over an already opened store.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, kv repo.KV) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	inv := inventory.New(repo.NewInventoryRepo(kv, log), inventory.WithLogger(log))
	if err := inv.Load(ctx); err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	return &App{
		Config:     cfg,
		Log:        log,
		Inv:        inv,
		Downloader: export.DirDownloader{Dir: cfg.ExportDir},
		kv:         kv,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil || a.kv == nil {
		return nil
	}
	return a.kv.Close()
}

// Actor attaches the configured actor to ctx for history entries.
func (a *App) Actor(ctx context.Context) context.Context {
	return inventory.WithActor(ctx, a.Config.Actor)
}

type ctxKey struct{}

// NewContext returns ctx carrying a.
func NewContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ErrNoApp is returned when a command runs without the root command's setup.
var ErrNoApp = errors.New("inventory not initialised")

// FromContext returns the App stored by NewContext.
func FromContext(ctx context.Context) (*App, error) {
	if ctx == nil {
		return nil, ErrNoApp
	}
	a, ok := ctx.Value(ctxKey{}).(*App)
	if !ok || a == nil {
		return nil, ErrNoApp
	}
	return a, nil
}
