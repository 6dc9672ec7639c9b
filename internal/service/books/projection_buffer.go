package books

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stayledger/internal/domain/models"
)

// projectionSaver is the slice of Service the buffer needs.
type projectionSaver interface {
	SaveProjection(ctx context.Context, p models.MonthlyProjection) error
}

// ProjectionBuffer debounces projection edits: each edit replaces the
// pending record for its (unit, month) key, and the record is written to the
// repository once the key has been quiet for the configured interval, or
// when Flush is called (navigation away).
type ProjectionBuffer struct {
	saver  projectionSaver
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]models.MonthlyProjection
	timers  map[string]*time.Timer
}

// DefaultFlushDelay is the quiescence interval before an edit is persisted.
const DefaultFlushDelay = time.Second

// NewProjectionBuffer builds a buffer flushing into the given saver.
func NewProjectionBuffer(saver projectionSaver, delay time.Duration, logger *zap.Logger) *ProjectionBuffer {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionBuffer{
		saver:   saver,
		delay:   delay,
		logger:  logger,
		pending: make(map[string]models.MonthlyProjection),
		timers:  make(map[string]*time.Timer),
	}
}

// Put buffers an edit and (re)arms the quiescence timer for its key.
func (b *ProjectionBuffer) Put(p models.MonthlyProjection) {
	key := models.ProjectionDocID(p.UnitID, p.Month)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[key] = p

	if timer, ok := b.timers[key]; ok {
		timer.Reset(b.delay)
		return
	}
	b.timers[key] = time.AfterFunc(b.delay, func() { b.flushKey(key) })
}

// Flush writes out every pending edit immediately.
func (b *ProjectionBuffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	edits := make([]models.MonthlyProjection, 0, len(b.pending))
	for key, p := range b.pending {
		edits = append(edits, p)
		delete(b.pending, key)
		if timer, ok := b.timers[key]; ok {
			timer.Stop()
			delete(b.timers, key)
		}
	}
	b.mu.Unlock()

	var firstErr error
	for _, p := range edits {
		if err := b.saver.SaveProjection(ctx, p); err != nil {
			b.logger.Error("projection flush failed",
				zap.Error(err),
				zap.String("unit_id", p.UnitID),
				zap.String("month", p.Month))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (b *ProjectionBuffer) flushKey(key string) {
	b.mu.Lock()
	p, ok := b.pending[key]
	delete(b.pending, key)
	delete(b.timers, key)
	b.mu.Unlock()

	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.saver.SaveProjection(ctx, p); err != nil {
		b.logger.Error("projection autosave failed",
			zap.Error(err),
			zap.String("unit_id", p.UnitID),
			zap.String("month", p.Month))
	}
}
