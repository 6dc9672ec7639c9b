package books

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"stayledger/internal/domain/models"
	"stayledger/internal/repository/mongodb"
	"stayledger/internal/service/aggregation"
)

// ViewState is the fully derived dashboard state for the selected unit.
type ViewState struct {
	UnitID          string                      `json:"unitId"`
	CapitalExpenses []models.CapitalExpense     `json:"capitalExpenses"`
	Transactions    []models.DailyTransaction   `json:"transactions"`
	Projections     []models.MonthlyProjection  `json:"projections"`
	Actuals         []aggregation.MonthSummary  `json:"monthlyActuals"`
	YearTotals      aggregation.YearTotals      `json:"yearTotals"`
	Capital         aggregation.CapitalTotals   `json:"capitalTotals"`
	ROI             aggregation.ROIReport       `json:"roi"`
}

// LiveView mirrors one unit's record collections via repository change
// streams and keeps the derived rollups current.
//
// Switching units tears the previous unit's subscriptions down completely
// (cancel, then wait for the watch goroutines to exit) before the new ones
// are established, so a stale unit's records can never flow into the newly
// selected unit's aggregates.
type LiveView struct {
	repo   mongodb.Repository
	svc    *Service
	logger *zap.Logger

	selMu  sync.Mutex // serializes SelectUnit/Close
	cancel context.CancelFunc
	wg     *sync.WaitGroup

	mu    sync.RWMutex
	state ViewState
}

var watchedCollections = []string{
	mongodb.CollCapitalExpenses,
	mongodb.CollDailyTransactions,
	mongodb.CollProjections,
}

// NewLiveView wires a live view over the books service's repository.
func NewLiveView(repo mongodb.Repository, svc *Service, logger *zap.Logger) *LiveView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveView{repo: repo, svc: svc, logger: logger}
}

// SelectUnit switches the live view to a unit. Prior subscriptions are torn
// down first; the initial state is loaded before the method returns.
func (lv *LiveView) SelectUnit(ctx context.Context, unitID string) error {
	lv.selMu.Lock()
	defer lv.selMu.Unlock()

	lv.teardown()

	watchCtx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	for _, coll := range watchedCollections {
		events, err := lv.repo.WatchUnit(watchCtx, coll, unitID)
		if err != nil {
			cancel()
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(coll string, events <-chan mongodb.ChangeEvent) {
			defer wg.Done()
			for ev := range events {
				lv.logger.Debug("record change observed",
					zap.String("collection", ev.Collection),
					zap.String("operation", ev.Operation))
				lv.refresh(watchCtx, unitID)
			}
		}(coll, events)
	}

	lv.cancel = cancel
	lv.wg = wg

	lv.refresh(ctx, unitID)
	return nil
}

// Close tears down the current unit's subscriptions.
func (lv *LiveView) Close() {
	lv.selMu.Lock()
	defer lv.selMu.Unlock()
	lv.teardown()
}

func (lv *LiveView) teardown() {
	if lv.cancel == nil {
		return
	}
	lv.cancel()
	lv.wg.Wait()
	lv.cancel = nil
	lv.wg = nil
}

// Snapshot returns a copy of the current derived state.
func (lv *LiveView) Snapshot() ViewState {
	lv.mu.RLock()
	defer lv.mu.RUnlock()

	state := lv.state
	state.CapitalExpenses = append([]models.CapitalExpense(nil), lv.state.CapitalExpenses...)
	state.Transactions = append([]models.DailyTransaction(nil), lv.state.Transactions...)
	state.Projections = append([]models.MonthlyProjection(nil), lv.state.Projections...)
	state.Actuals = append([]aggregation.MonthSummary(nil), lv.state.Actuals...)
	return state
}

// refresh refetches the unit's record sets and recomputes every rollup.
// Aggregation is a pure function of the fetched arrays, so a refresh that
// races a later one simply loses the write of an equally consistent state.
func (lv *LiveView) refresh(ctx context.Context, unitID string) {
	capital, err := lv.svc.CapitalExpenses(ctx, unitID)
	if err != nil {
		lv.logger.Error("refresh capital expenses failed", zap.Error(err), zap.String("unit_id", unitID))
		return
	}
	transactions, err := lv.svc.Transactions(ctx, unitID)
	if err != nil {
		lv.logger.Error("refresh transactions failed", zap.Error(err), zap.String("unit_id", unitID))
		return
	}
	projections, err := lv.svc.Projections(ctx, unitID)
	if err != nil {
		lv.logger.Error("refresh projections failed", zap.Error(err), zap.String("unit_id", unitID))
		return
	}

	months := lv.svc.Months()
	actuals := aggregation.MonthlyActuals(months, transactions)

	state := ViewState{
		UnitID:          unitID,
		CapitalExpenses: capital,
		Transactions:    transactions,
		Projections:     projections,
		Actuals:         actuals,
		YearTotals:      aggregation.SumYear(actuals),
		Capital:         aggregation.SumCapitalExpenses(capital),
		ROI:             aggregation.ComputeROI(months, capital, transactions),
	}

	lv.mu.Lock()
	lv.state = state
	lv.mu.Unlock()
}
