package books

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayledger/internal/domain/models"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved []models.MonthlyProjection
}

func (r *recordingSaver) SaveProjection(ctx context.Context, p models.MonthlyProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, p)
	return nil
}

func (r *recordingSaver) snapshot() []models.MonthlyProjection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.MonthlyProjection(nil), r.saved...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestProjectionBufferDebounces(t *testing.T) {
	saver := &recordingSaver{}
	buf := NewProjectionBuffer(saver, 30*time.Millisecond, nil)

	// rapid edits to the same month coalesce into one save of the latest value
	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "March 2026", ProjectedIncome: 100})
	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "March 2026", ProjectedIncome: 200})
	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "March 2026", ProjectedIncome: 300})

	waitFor(t, time.Second, func() bool { return len(saver.snapshot()) == 1 })

	saved := saver.snapshot()
	if saved[0].ProjectedIncome != 300 {
		t.Fatalf("saved income %v, want the latest edit 300", saved[0].ProjectedIncome)
	}

	// quiet period with nothing pending writes nothing further
	time.Sleep(60 * time.Millisecond)
	if got := len(saver.snapshot()); got != 1 {
		t.Fatalf("expected exactly one save, got %d", got)
	}
}

func TestProjectionBufferSeparateKeys(t *testing.T) {
	saver := &recordingSaver{}
	buf := NewProjectionBuffer(saver, 20*time.Millisecond, nil)

	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "March 2026", ProjectedIncome: 1})
	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "April 2026", ProjectedIncome: 2})

	waitFor(t, time.Second, func() bool { return len(saver.snapshot()) == 2 })
}

func TestProjectionBufferFlush(t *testing.T) {
	saver := &recordingSaver{}
	buf := NewProjectionBuffer(saver, time.Hour, nil) // timer never fires in test

	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "March 2026", ProjectedIncome: 100})
	buf.Put(models.MonthlyProjection{UnitID: "u1", Month: "April 2026", ProjectedIncome: 200})

	if err := buf.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := len(saver.snapshot()); got != 2 {
		t.Fatalf("expected 2 saves after flush, got %d", got)
	}

	// nothing pending after flush
	if err := buf.Flush(context.Background()); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if got := len(saver.snapshot()); got != 2 {
		t.Fatalf("flush with empty buffer must not resave, got %d", got)
	}
}
