// Package inventory owns the asset and history collections and every
// operation that reads or changes them.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/metrics"
	"github.com/crucial707/dosasset/internal/models"
	"github.com/crucial707/dosasset/internal/query"
)

// Persister loads and saves both collections.
type Persister interface {
	Load(ctx context.Context) ([]models.Asset, []models.HistoryEntry, error)
	Save(ctx context.Context, assets []models.Asset, history []models.HistoryEntry) error
}

// RecentLimit is how many history entries the dashboard shows.
const RecentLimit = 8

// Option configures an Inventory.
type Option func(*Inventory)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option { return func(inv *Inventory) { inv.log = l } }

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option { return func(inv *Inventory) { inv.now = now } }

// WithIDs sets the generator for new asset identifiers.
func WithIDs(newID func() string) Option { return func(inv *Inventory) { inv.newID = newID } }

// Inventory is safe for concurrent use. Every mutation is applied to a copy,
// persisted, and only then made visible; a failed save changes nothing.
type Inventory struct {
	mu      sync.RWMutex
	assets  []models.Asset
	history []models.HistoryEntry

	store Persister
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func New(store Persister, opts ...Option) *Inventory {
	inv := &Inventory{
		assets:  []models.Asset{},
		history: []models.HistoryEntry{},
		store:   store,
		log:     zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Load replaces the in-memory state with the persisted one.
func (inv *Inventory) Load(ctx context.Context) error {
	assets, history, err := inv.store.Load(ctx)
	if err != nil {
		return err
	}
	inv.mu.Lock()
	inv.assets, inv.history = assets, history
	inv.publishLocked()
	inv.mu.Unlock()
	inv.log.Info("inventory loaded", zap.Int("assets", len(assets)), zap.Int("history", len(history)))
	return nil
}

// ==========================
// Reads
// ==========================

// Assets returns a copy of every asset in insertion order.
func (inv *Inventory) Assets() []models.Asset {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return cloneAssets(inv.assets)
}

// History returns a copy of the activity log, oldest first.
func (inv *Inventory) History() []models.HistoryEntry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return append([]models.HistoryEntry{}, inv.history...)
}

// Recent returns up to n history entries, newest first.
func (inv *Inventory) Recent(n int) []models.HistoryEntry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if n <= 0 || n > len(inv.history) {
		n = len(inv.history)
	}
	out := make([]models.HistoryEntry, 0, n)
	for i := len(inv.history) - 1; i >= len(inv.history)-n; i-- {
		out = append(out, inv.history[i])
	}
	return out
}

// Filter returns copies of the assets that pass f.
func (inv *Inventory) Filter(f query.Filter) []models.Asset {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return cloneAssets(f.Apply(inv.assets))
}

// Get returns the asset with the given id.
func (inv *Inventory) Get(id string) (models.Asset, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if i := indexByID(inv.assets, id); i >= 0 {
		return inv.assets[i].Clone(), nil
	}
	return models.Asset{}, ErrNotFound
}

// FindByTag returns the first asset whose tag equals tag exactly.
func (inv *Inventory) FindByTag(tag string) (models.Asset, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if i := indexByTag(inv.assets, tag); i >= 0 {
		return inv.assets[i].Clone(), nil
	}
	return models.Asset{}, ErrNotFound
}

// Stats counts assets in total and per status.
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Repair  int `json:"repair"`
	Retired int `json:"retired"`
	Lost    int `json:"lost"`
}

func (inv *Inventory) Stats() Stats {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return statsOf(inv.assets)
}

func statsOf(assets []models.Asset) Stats {
	s := Stats{Total: len(assets)}
	for _, a := range assets {
		switch a.Status {
		case models.StatusActive:
			s.Active++
		case models.StatusRepair:
			s.Repair++
		case models.StatusRetired:
			s.Retired++
		case models.StatusLost:
			s.Lost++
		}
	}
	return s
}

// ==========================
// Mutations
// ==========================

// Add stores a new asset under a fresh identifier. Tag, type, model and
// serial are required; an empty status defaults to active.
func (inv *Inventory) Add(ctx context.Context, a models.Asset) (models.Asset, error) {
	for _, f := range []string{"tag", "type", "model", "serial"} {
		if strings.TrimSpace(a.Field(f)) == "" {
			return models.Asset{}, &FieldError{Field: f, Err: ErrMissingField}
		}
	}
	if a.Status == "" {
		a.Status = models.StatusActive
	}
	if !models.ValidStatus(a.Status) {
		return models.Asset{}, &FieldError{Field: "status", Value: a.Status, Err: ErrInvalidStatus}
	}

	a = a.Clone()
	a.ID = inv.newID()
	if a.Audit == nil {
		a.Audit = []json.RawMessage{}
	}

	err := inv.mutate(ctx, func(t *txn) error {
		t.assets = append(t.assets, a)
		t.record("add", "tag="+a.Tag)
		return nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	inv.log.Info("asset added", zap.String("id", a.ID), zap.String("tag", a.Tag))
	return a.Clone(), nil
}

// Update overwrites the given editable fields of the asset with id.
func (inv *Inventory) Update(ctx context.Context, id string, fields map[string]string) (models.Asset, error) {
	return inv.edit(ctx, func(assets []models.Asset) int { return indexByID(assets, id) }, fields)
}

// EditByTag overwrites the given editable fields of the first asset tagged tag.
func (inv *Inventory) EditByTag(ctx context.Context, tag string, fields map[string]string) (models.Asset, error) {
	return inv.edit(ctx, func(assets []models.Asset) int { return indexByTag(assets, tag) }, fields)
}

func (inv *Inventory) edit(ctx context.Context, find func([]models.Asset) int, fields map[string]string) (models.Asset, error) {
	if err := validateEdit(fields); err != nil {
		return models.Asset{}, err
	}
	var out models.Asset
	err := inv.mutate(ctx, func(t *txn) error {
		i := find(t.assets)
		if i < 0 {
			return ErrNotFound
		}
		a := &t.assets[i]
		for _, name := range models.EditableFields {
			if v, ok := fields[name]; ok {
				a.SetField(name, v)
			}
		}
		t.record("edit", "tag="+a.Tag)
		out = a.Clone()
		return nil
	})
	return out, err
}

func validateEdit(fields map[string]string) error {
	for name, v := range fields {
		if !isEditable(name) {
			return &FieldError{Field: name, Err: ErrUnknownField}
		}
		if name == "status" && !models.ValidStatus(v) {
			return &FieldError{Field: name, Value: v, Err: ErrInvalidStatus}
		}
	}
	return nil
}

func isEditable(name string) bool {
	for _, f := range models.EditableFields {
		if f == name {
			return true
		}
	}
	return false
}

// Retire sets the status of the asset with id to retired.
func (inv *Inventory) Retire(ctx context.Context, id string) (models.Asset, error) {
	return inv.retire(ctx, func(assets []models.Asset) int { return indexByID(assets, id) })
}

// RetireByTag sets the status of the first asset tagged tag to retired.
func (inv *Inventory) RetireByTag(ctx context.Context, tag string) (models.Asset, error) {
	return inv.retire(ctx, func(assets []models.Asset) int { return indexByTag(assets, tag) })
}

func (inv *Inventory) retire(ctx context.Context, find func([]models.Asset) int) (models.Asset, error) {
	var out models.Asset
	err := inv.mutate(ctx, func(t *txn) error {
		i := find(t.assets)
		if i < 0 {
			return ErrNotFound
		}
		t.assets[i].Status = models.StatusRetired
		t.record("retire", "tag="+t.assets[i].Tag)
		out = t.assets[i].Clone()
		return nil
	})
	return out, err
}

// Delete removes the asset with id. Its history entries are kept.
func (inv *Inventory) Delete(ctx context.Context, id string) error {
	return inv.mutate(ctx, func(t *txn) error {
		i := indexByID(t.assets, id)
		if i < 0 {
			return ErrNotFound
		}
		tag := t.assets[i].Tag
		t.assets = append(t.assets[:i], t.assets[i+1:]...)
		t.record("delete", "tag="+tag)
		return nil
	})
}

// BatchRetire retires every asset whose id is listed and returns how many were found.
func (inv *Inventory) BatchRetire(ctx context.Context, ids []string) (int, error) {
	n := 0
	err := inv.mutate(ctx, func(t *txn) error {
		for _, id := range ids {
			if i := indexByID(t.assets, id); i >= 0 {
				t.assets[i].Status = models.StatusRetired
				t.record("retire", "tag="+t.assets[i].Tag)
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// BatchAssign sets the owner of every listed asset. An empty owner changes nothing.
func (inv *Inventory) BatchAssign(ctx context.Context, ids []string, owner string) (int, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return 0, nil
	}
	n := 0
	err := inv.mutate(ctx, func(t *txn) error {
		for _, id := range ids {
			if i := indexByID(t.assets, id); i >= 0 {
				t.assets[i].Owner = owner
				t.record("assign", fmt.Sprintf("tag=%s owner=%s", t.assets[i].Tag, owner))
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Import replaces the whole asset collection. History is left as is.
func (inv *Inventory) Import(ctx context.Context, assets []models.Asset) error {
	err := inv.mutate(ctx, func(t *txn) error {
		t.assets = cloneAssets(assets)
		return nil
	})
	if err == nil {
		inv.log.Info("assets imported", zap.Int("assets", len(assets)))
	}
	return err
}

// Wipe clears both collections.
func (inv *Inventory) Wipe(ctx context.Context) error {
	err := inv.mutate(ctx, func(t *txn) error {
		t.assets = []models.Asset{}
		t.history = []models.HistoryEntry{}
		return nil
	})
	if err == nil {
		inv.log.Warn("inventory wiped", zap.String("actor", ActorFrom(ctx)))
	}
	return err
}

// ==========================
// Transactions
// ==========================

type txn struct {
	assets  []models.Asset
	history []models.HistoryEntry
	actor   string
	stamp   string
}

func (t *txn) record(action, details string) {
	t.history = append(t.history, models.HistoryEntry{
		Timestamp: t.stamp,
		Actor:     t.actor,
		Action:    action,
		Details:   details,
	})
}

func (inv *Inventory) mutate(ctx context.Context, fn func(t *txn) error) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	t := &txn{
		assets:  cloneAssets(inv.assets),
		history: append([]models.HistoryEntry{}, inv.history...),
		actor:   ActorFrom(ctx),
		stamp:   inv.now().Format(models.HistoryTimeLayout),
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := inv.store.Save(ctx, t.assets, t.history); err != nil {
		inv.log.Error("save failed", zap.Error(err))
		return fmt.Errorf("save: %w", err)
	}
	inv.assets, inv.history = t.assets, t.history
	inv.publishLocked()
	return nil
}

func (inv *Inventory) publishLocked() {
	s := statsOf(inv.assets)
	metrics.SetAssetCounts(map[string]int{
		models.StatusActive:  s.Active,
		models.StatusRepair:  s.Repair,
		models.StatusRetired: s.Retired,
		models.StatusLost:    s.Lost,
	})
}

func cloneAssets(in []models.Asset) []models.Asset {
	out := make([]models.Asset, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func indexByID(assets []models.Asset, id string) int {
	for i := range assets {
		if assets[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByTag(assets []models.Asset, tag string) int {
	for i := range assets {
		if assets[i].Tag == tag {
			return i
		}
	}
	return -1
}
