package books

import (
	"context"
	"testing"
	"time"

	"stayledger/internal/repository/memory"
)

func TestLiveViewSelectUnitLoadsState(t *testing.T) {
	repo := memory.New()
	svc := NewService(repo, testOwner, testMonths, nil)
	lv := NewLiveView(repo, svc, nil)
	defer lv.Close()

	ctx := context.Background()
	if _, err := svc.AddTariff(ctx, "u1", TariffInput{Date: "2026-03-10", GuestName: "Ravi", Nights: 3, DailyTariff: 2000}); err != nil {
		t.Fatal(err)
	}

	if err := lv.SelectUnit(ctx, "u1"); err != nil {
		t.Fatalf("SelectUnit: %v", err)
	}

	state := lv.Snapshot()
	if state.UnitID != "u1" {
		t.Fatalf("state unit %q", state.UnitID)
	}
	if len(state.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(state.Transactions))
	}
	if state.YearTotals.Income != 6000 {
		t.Fatalf("year income %v, want 6000", state.YearTotals.Income)
	}
	if len(state.Actuals) != 12 {
		t.Fatalf("expected 12 actual rows, got %d", len(state.Actuals))
	}
}

func TestLiveViewReactsToChanges(t *testing.T) {
	repo := memory.New()
	svc := NewService(repo, testOwner, testMonths, nil)
	lv := NewLiveView(repo, svc, nil)
	defer lv.Close()

	ctx := context.Background()
	if err := lv.SelectUnit(ctx, "u1"); err != nil {
		t.Fatalf("SelectUnit: %v", err)
	}
	if lv.Snapshot().YearTotals.Income != 0 {
		t.Fatal("expected empty initial state")
	}

	if _, err := svc.AddTariff(ctx, "u1", TariffInput{Date: "2026-03-10", GuestName: "Ravi", Nights: 2, DailyTariff: 1000}); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return lv.Snapshot().YearTotals.Income == 2000
	})
}

func TestLiveViewTearsDownBeforeSwitching(t *testing.T) {
	repo := memory.New()
	svc := NewService(repo, testOwner, testMonths, nil)
	lv := NewLiveView(repo, svc, nil)
	defer lv.Close()

	ctx := context.Background()
	if err := lv.SelectUnit(ctx, "u1"); err != nil {
		t.Fatalf("SelectUnit u1: %v", err)
	}
	waitFor(t, time.Second, func() bool { return repo.ActiveWatchers() == len(watchedCollections) })

	if err := lv.SelectUnit(ctx, "u2"); err != nil {
		t.Fatalf("SelectUnit u2: %v", err)
	}

	// only the new unit's subscriptions may remain
	waitFor(t, time.Second, func() bool { return repo.ActiveWatchers() == len(watchedCollections) })

	// a write to the previously selected unit must not surface in the view
	if _, err := svc.AddTariff(ctx, "u1", TariffInput{Date: "2026-03-10", GuestName: "Stale", Nights: 5, DailyTariff: 500}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddTariff(ctx, "u2", TariffInput{Date: "2026-03-11", GuestName: "Fresh", Nights: 1, DailyTariff: 750}); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 2*time.Second, func() bool {
		state := lv.Snapshot()
		return state.UnitID == "u2" && state.YearTotals.Income == 750
	})

	state := lv.Snapshot()
	for _, tx := range state.Transactions {
		if tx.UnitID != "u2" {
			t.Fatalf("stale unit record leaked into view: %+v", tx)
		}
	}
}

func TestLiveViewCloseStopsWatchers(t *testing.T) {
	repo := memory.New()
	svc := NewService(repo, testOwner, testMonths, nil)
	lv := NewLiveView(repo, svc, nil)

	if err := lv.SelectUnit(context.Background(), "u1"); err != nil {
		t.Fatalf("SelectUnit: %v", err)
	}
	lv.Close()

	waitFor(t, time.Second, func() bool { return repo.ActiveWatchers() == 0 })
}
