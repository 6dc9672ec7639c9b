// Package memory provides an in-memory Repository used by tests and local
// development. It mirrors the MongoDB adapter's behavior, including
// per-collection change notifications.
package memory

import (
	"context"
	"sort"
	"sync"

	"stayledger/internal/domain/models"
	"stayledger/internal/repository/mongodb"
)

type watcher struct {
	collection string
	unitID     string
	events     chan mongodb.ChangeEvent
}

// Repository is a map-backed implementation of mongodb.Repository.
type Repository struct {
	mu           sync.RWMutex
	units        map[string]models.Unit
	capital      map[string]models.CapitalExpense
	transactions map[string]models.DailyTransaction
	projections  map[string]models.MonthlyProjection
	snapshots    []models.SummarySnapshot
	watchers     map[*watcher]struct{}
}

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{
		units:        make(map[string]models.Unit),
		capital:      make(map[string]models.CapitalExpense),
		transactions: make(map[string]models.DailyTransaction),
		projections:  make(map[string]models.MonthlyProjection),
		watchers:     make(map[*watcher]struct{}),
	}
}

var _ mongodb.Repository = (*Repository)(nil)

func (r *Repository) notify(collection, operation, unitID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for w := range r.watchers {
		if w.collection != collection {
			continue
		}
		if operation != "delete" && w.unitID != unitID {
			continue
		}
		select {
		case w.events <- mongodb.ChangeEvent{Collection: collection, Operation: operation}:
		default:
		}
	}
}

// CreateUnit stores a unit record.
func (r *Repository) CreateUnit(ctx context.Context, unit models.Unit) error {
	r.mu.Lock()
	r.units[unit.ID] = unit
	r.mu.Unlock()
	r.notify(mongodb.CollUnits, "insert", unit.ID)
	return nil
}

// ListUnits returns the owner's units ordered by creation time.
func (r *Repository) ListUnits(ctx context.Context, ownerID string) ([]models.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var units []models.Unit
	for _, u := range r.units {
		if u.OwnerID == ownerID {
			units = append(units, u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].CreatedAt.Before(units[j].CreatedAt) })
	return units, nil
}

// CreateCapitalExpense stores a capital expense record.
func (r *Repository) CreateCapitalExpense(ctx context.Context, item models.CapitalExpense) error {
	r.mu.Lock()
	r.capital[item.ID] = item
	r.mu.Unlock()
	r.notify(mongodb.CollCapitalExpenses, "insert", item.UnitID)
	return nil
}

// UpdateCapitalExpense replaces the editable fields of a stored record.
func (r *Repository) UpdateCapitalExpense(ctx context.Context, item models.CapitalExpense) error {
	r.mu.Lock()
	existing, ok := r.capital[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		r.mu.Unlock()
		return mongodb.ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UnitID = existing.UnitID
	r.capital[item.ID] = item
	r.mu.Unlock()
	r.notify(mongodb.CollCapitalExpenses, "update", item.UnitID)
	return nil
}

// DeleteCapitalExpense removes a stored record.
func (r *Repository) DeleteCapitalExpense(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	existing, ok := r.capital[id]
	if !ok || existing.OwnerID != ownerID {
		r.mu.Unlock()
		return mongodb.ErrNotFound
	}
	delete(r.capital, id)
	r.mu.Unlock()
	r.notify(mongodb.CollCapitalExpenses, "delete", existing.UnitID)
	return nil
}

// ListCapitalExpenses returns a unit's capital expenses ordered by creation
// time.
func (r *Repository) ListCapitalExpenses(ctx context.Context, ownerID, unitID string) ([]models.CapitalExpense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []models.CapitalExpense
	for _, item := range r.capital {
		if item.OwnerID == ownerID && item.UnitID == unitID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// CreateTransaction stores one daily transaction.
func (r *Repository) CreateTransaction(ctx context.Context, t models.DailyTransaction) error {
	r.mu.Lock()
	r.transactions[t.ID] = t
	r.mu.Unlock()
	r.notify(mongodb.CollDailyTransactions, "insert", t.UnitID)
	return nil
}

// CreateTransactions stores an import batch.
func (r *Repository) CreateTransactions(ctx context.Context, ts []models.DailyTransaction) error {
	if len(ts) == 0 {
		return nil
	}
	r.mu.Lock()
	for _, t := range ts {
		r.transactions[t.ID] = t
	}
	r.mu.Unlock()
	r.notify(mongodb.CollDailyTransactions, "insert", ts[0].UnitID)
	return nil
}

// ListTransactions returns a unit's transactions ordered by date.
func (r *Repository) ListTransactions(ctx context.Context, ownerID, unitID string) ([]models.DailyTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ts []models.DailyTransaction
	for _, t := range r.transactions {
		if t.OwnerID == ownerID && t.UnitID == unitID {
			ts = append(ts, t)
		}
	}
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Date != ts[j].Date {
			return ts[i].Date < ts[j].Date
		}
		return ts[i].CreatedAt.Before(ts[j].CreatedAt)
	})
	return ts, nil
}

// UpsertProjection creates or replaces the projection for its composite key.
func (r *Repository) UpsertProjection(ctx context.Context, p models.MonthlyProjection) error {
	r.mu.Lock()
	r.projections[p.ID] = p
	r.mu.Unlock()
	r.notify(mongodb.CollProjections, "update", p.UnitID)
	return nil
}

// ListProjections returns a unit's stored projections ordered by month label.
func (r *Repository) ListProjections(ctx context.Context, ownerID, unitID string) ([]models.MonthlyProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ps []models.MonthlyProjection
	for _, p := range r.projections {
		if p.OwnerID == ownerID && p.UnitID == unitID {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Month < ps[j].Month })
	return ps, nil
}

// SaveSnapshot appends a summary snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, s models.SummarySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
	return nil
}

// Snapshots returns the saved snapshots (test helper).
func (r *Repository) Snapshots() []models.SummarySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.SummarySnapshot(nil), r.snapshots...)
}

// WatchUnit registers a change watcher for one collection and unit. The
// channel closes when ctx is cancelled.
func (r *Repository) WatchUnit(ctx context.Context, collection, unitID string) (<-chan mongodb.ChangeEvent, error) {
	w := &watcher{
		collection: collection,
		unitID:     unitID,
		events:     make(chan mongodb.ChangeEvent, 16),
	}

	r.mu.Lock()
	r.watchers[w] = struct{}{}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.watchers, w)
		r.mu.Unlock()
		close(w.events)
	}()

	return w.events, nil
}

// ActiveWatchers reports how many watchers are currently registered (test
// helper).
func (r *Repository) ActiveWatchers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.watchers)
}
