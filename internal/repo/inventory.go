package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/models"
)

// Keys under which the collections are stored.
const (
	AssetsKey  = "assets"
	HistoryKey = "history"
)

// InventoryRepo persists the asset and history collections as JSON arrays.
type InventoryRepo struct {
	kv  KV
	log *zap.Logger
}

// NewInventoryRepo returns a new InventoryRepo. A nil logger discards output.
func NewInventoryRepo(kv KV, log *zap.Logger) *InventoryRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryRepo{kv: kv, log: log}
}

// Load reads both collections. Missing keys load as empty collections.
// Stored text that does not decode resets both collections, matching a fresh start.
func (r *InventoryRepo) Load(ctx context.Context) ([]models.Asset, []models.HistoryEntry, error) {
	rawAssets, err := r.getOr(ctx, AssetsKey, "[]")
	if err != nil {
		return nil, nil, err
	}
	rawHistory, err := r.getOr(ctx, HistoryKey, "[]")
	if err != nil {
		return nil, nil, err
	}

	assets := []models.Asset{}
	history := []models.HistoryEntry{}
	if err := json.Unmarshal([]byte(rawAssets), &assets); err != nil {
		r.log.Warn("stored assets are not valid JSON; starting empty", zap.Error(err))
		return []models.Asset{}, []models.HistoryEntry{}, nil
	}
	if err := json.Unmarshal([]byte(rawHistory), &history); err != nil {
		r.log.Warn("stored history is not valid JSON; starting empty", zap.Error(err))
		return []models.Asset{}, []models.HistoryEntry{}, nil
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return assets, history, nil
}

// Save writes both collections in one Put.
func (r *InventoryRepo) Save(ctx context.Context, assets []models.Asset, history []models.HistoryEntry) error {
	if assets == nil {
		assets = []models.Asset{}
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	a, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}
	h, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.kv.Put(ctx, map[string]string{AssetsKey: string(a), HistoryKey: string(h)}); err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	r.log.Debug("inventory saved", zap.Int("assets", len(assets)), zap.Int("history", len(history)))
	return nil
}

// Ping checks the underlying store.
func (r *InventoryRepo) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}

func (r *InventoryRepo) getOr(ctx context.Context, key, fallback string) (string, error) {
	v, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}
