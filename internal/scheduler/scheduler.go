package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"stayledger/internal/config"
	"stayledger/internal/domain/models"
	"stayledger/internal/repository/mongodb"
	"stayledger/internal/repository/sheets"
	"stayledger/internal/service/books"
)

// Scheduler persists a summary snapshot per unit on a cron schedule and,
// when configured, mirrors it to the spreadsheet export.
type Scheduler struct {
	cron     *cron.Cron
	books    *books.Service
	repo     mongodb.Repository
	exporter sheets.Exporter // nil when export is not configured
	cfg      config.SnapshotConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone.
func NewScheduler(cfg config.SnapshotConfig, booksSvc *books.Service, repo mongodb.Repository, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		books:    booksSvc,
		repo:     repo,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.snapshotAllUnits); err != nil {
		s.logger.Error("failed to schedule summary snapshots", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) snapshotAllUnits() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	units, err := s.books.Units(ctx)
	if err != nil {
		s.logger.Error("failed to list units for snapshot", zap.Error(err))
		return
	}

	for _, unit := range units {
		if err := s.snapshotUnit(ctx, unit); err != nil {
			s.logger.Error("failed to snapshot unit", zap.Error(err), zap.String("unit_id", unit.ID))
		}
	}
}

func (s *Scheduler) snapshotUnit(ctx context.Context, unit models.Unit) error {
	_, yearTotals, err := s.books.MonthlySummary(ctx, unit.ID)
	if err != nil {
		return err
	}
	roi, err := s.books.ROI(ctx, unit.ID)
	if err != nil {
		return err
	}

	snapshot := models.SummarySnapshot{
		UnitID:        unit.ID,
		UnitName:      unit.Name,
		OwnerID:       unit.OwnerID,
		TotalIncome:   yearTotals.Income,
		TotalExpenses: yearTotals.Expense,
		NetProfit:     yearTotals.Net,
		TotalCapital:  roi.TotalCapital,
		ROI:           roi.ROI,
		ROIMeasured:   roi.Measured,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
			// The database copy is authoritative; a failed export is logged
			// and retried on the next run.
			s.logger.Warn("sheet export failed", zap.Error(err), zap.String("unit_id", unit.ID))
		}
	}

	s.logger.Info("summary snapshot saved", zap.String("unit_id", unit.ID))
	return nil
}
