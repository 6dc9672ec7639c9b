// Package books orchestrates record writes and summary reads for a single
// owner's rental units.
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"stayledger/internal/domain/models"
	"stayledger/internal/repository/mongodb"
	"stayledger/internal/service/aggregation"
)

// ErrInvalidDate is returned when a transaction date cannot be parsed.
var ErrInvalidDate = errors.New("unparseable transaction date")

// Service stamps ownership, derives index fields and delegates persistence
// to the record repository. Summary reads recompute from the raw record
// sets on every call.
type Service struct {
	repo    mongodb.Repository
	ownerID string
	months  []string
	logger  *zap.Logger
}

// NewService wires a books service for the configured owner and financial
// year month domain.
func NewService(repo mongodb.Repository, ownerID string, months []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, ownerID: ownerID, months: months, logger: logger}
}

// Months exposes the fixed financial-year month labels.
func (s *Service) Months() []string {
	return s.months
}

// OwnerID exposes the configured owner identity.
func (s *Service) OwnerID() string {
	return s.ownerID
}

// ValidMonth reports whether a month label belongs to the financial year
// domain. Projection writes outside the domain would never surface in any
// rollup, so they are rejected at the boundary.
func (s *Service) ValidMonth(month string) bool {
	for _, m := range s.months {
		if m == month {
			return true
		}
	}
	return false
}

// CreateUnit registers a new rental property.
func (s *Service) CreateUnit(ctx context.Context, name string) (models.Unit, error) {
	unit := models.Unit{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		OwnerID:   s.ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUnit(ctx, unit); err != nil {
		return models.Unit{}, err
	}
	s.logger.Info("unit created", zap.String("unit_id", unit.ID), zap.String("name", unit.Name))
	return unit, nil
}

// Units lists the owner's rental properties.
func (s *Service) Units(ctx context.Context) ([]models.Unit, error) {
	return s.repo.ListUnits(ctx, s.ownerID)
}

// CapitalExpenseInput carries the editable fields of a capital expense.
type CapitalExpenseInput struct {
	Item          string  `json:"item" binding:"required"`
	TotalBudget   float64 `json:"totalBudget"`
	AdvancePaid1  float64 `json:"advancePaid1"`
	AdvancePaid2  float64 `json:"advancePaid2"`
	AdvancePaid3  float64 `json:"advancePaid3"`
	AdvancePaid4  float64 `json:"advancePaid4"`
	AdvancePaid5  float64 `json:"advancePaid5"`
	ActualExpense float64 `json:"actualExpense"`
	Notes         string  `json:"notes"`
}

func (in CapitalExpenseInput) apply(item *models.CapitalExpense) {
	item.Item = in.Item
	item.TotalBudget = models.Num(in.TotalBudget)
	item.AdvancePaid1 = models.Num(in.AdvancePaid1)
	item.AdvancePaid2 = models.Num(in.AdvancePaid2)
	item.AdvancePaid3 = models.Num(in.AdvancePaid3)
	item.AdvancePaid4 = models.Num(in.AdvancePaid4)
	item.AdvancePaid5 = models.Num(in.AdvancePaid5)
	item.ActualExpense = models.Num(in.ActualExpense)
	item.Notes = in.Notes
}

// AddCapitalExpense records a new capital expenditure for a unit.
func (s *Service) AddCapitalExpense(ctx context.Context, unitID string, in CapitalExpenseInput) (models.CapitalExpense, error) {
	item := models.CapitalExpense{
		ID:        primitive.NewObjectID().Hex(),
		UnitID:    unitID,
		OwnerID:   s.ownerID,
		CreatedAt: time.Now().UTC(),
	}
	in.apply(&item)

	if err := s.repo.CreateCapitalExpense(ctx, item); err != nil {
		return models.CapitalExpense{}, err
	}
	return item, nil
}

// UpdateCapitalExpense replaces the editable fields of an existing record.
func (s *Service) UpdateCapitalExpense(ctx context.Context, unitID, id string, in CapitalExpenseInput) (models.CapitalExpense, error) {
	item := models.CapitalExpense{
		ID:          id,
		UnitID:      unitID,
		OwnerID:     s.ownerID,
		LastUpdated: time.Now().UTC(),
	}
	in.apply(&item)

	if err := s.repo.UpdateCapitalExpense(ctx, item); err != nil {
		return models.CapitalExpense{}, err
	}
	return item, nil
}

// DeleteCapitalExpense removes a capital expense record.
func (s *Service) DeleteCapitalExpense(ctx context.Context, id string) error {
	return s.repo.DeleteCapitalExpense(ctx, s.ownerID, id)
}

// CapitalExpenses lists a unit's capital expense records.
func (s *Service) CapitalExpenses(ctx context.Context, unitID string) ([]models.CapitalExpense, error) {
	return s.repo.ListCapitalExpenses(ctx, s.ownerID, unitID)
}

// TariffInput is a guest-stay income entry: effective income is
// Nights x DailyTariff.
type TariffInput struct {
	Date        string  `json:"date" binding:"required"`
	GuestName   string  `json:"guestName" binding:"required"`
	Nights      float64 `json:"nights" binding:"required"`
	DailyTariff float64 `json:"dailyTariff" binding:"required"`
}

// OtherTransactionInput is a non-tariff income or expense entry.
type OtherTransactionInput struct {
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Type        models.FlowType `json:"type" binding:"required,oneof=Income Expense"`
	Category    string          `json:"category" binding:"required"`
	Amount      float64         `json:"amount" binding:"required"`
	Notes       string          `json:"notes"`
}

// TariffTransaction builds a tariff record from an input without persisting
// it. The month-year index is derived from the date at this point and
// nowhere else.
func (s *Service) TariffTransaction(unitID string, in TariffInput) (models.DailyTransaction, error) {
	date := models.NormalizeDate(in.Date)
	if date == "" {
		return models.DailyTransaction{}, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}

	return models.DailyTransaction{
		ID:              primitive.NewObjectID().Hex(),
		UnitID:          unitID,
		OwnerID:         s.ownerID,
		Date:            date,
		MonthYear:       models.MonthYearOf(date),
		TransactionType: models.KindTariff,
		Type:            models.FlowIncome,
		Category:        models.TariffCategory,
		Amount:          models.Num(in.DailyTariff),
		Nights:          models.Num(in.Nights),
		GuestName:       in.GuestName,
		Description:     "Stay for " + in.GuestName,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// AddTariff records a guest-stay income entry.
func (s *Service) AddTariff(ctx context.Context, unitID string, in TariffInput) (models.DailyTransaction, error) {
	t, err := s.TariffTransaction(unitID, in)
	if err != nil {
		return models.DailyTransaction{}, err
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return models.DailyTransaction{}, err
	}
	return t, nil
}

// AddTransaction records a non-tariff income or expense entry.
func (s *Service) AddTransaction(ctx context.Context, unitID string, in OtherTransactionInput) (models.DailyTransaction, error) {
	date := models.NormalizeDate(in.Date)
	if date == "" {
		return models.DailyTransaction{}, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}

	t := models.DailyTransaction{
		ID:              primitive.NewObjectID().Hex(),
		UnitID:          unitID,
		OwnerID:         s.ownerID,
		Date:            date,
		MonthYear:       models.MonthYearOf(date),
		TransactionType: models.KindOther,
		Type:            in.Type,
		Category:        in.Category,
		Amount:          models.Num(in.Amount),
		Description:     in.Description,
		Notes:           in.Notes,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return models.DailyTransaction{}, err
	}
	return t, nil
}

// AddTransactions persists an import batch in one repository call.
func (s *Service) AddTransactions(ctx context.Context, ts []models.DailyTransaction) error {
	return s.repo.CreateTransactions(ctx, ts)
}

// Transactions lists a unit's daily transactions.
func (s *Service) Transactions(ctx context.Context, unitID string) ([]models.DailyTransaction, error) {
	return s.repo.ListTransactions(ctx, s.ownerID, unitID)
}

// SaveProjection upserts the forecast for one (unit, month) pair.
func (s *Service) SaveProjection(ctx context.Context, p models.MonthlyProjection) error {
	p.ID = models.ProjectionDocID(p.UnitID, p.Month)
	p.OwnerID = s.ownerID
	p.LastUpdated = time.Now().UTC()
	return s.repo.UpsertProjection(ctx, p)
}

// Projections lists the stored forecasts for a unit.
func (s *Service) Projections(ctx context.Context, unitID string) ([]models.MonthlyProjection, error) {
	return s.repo.ListProjections(ctx, s.ownerID, unitID)
}

// MonthlySummary derives the 12-row actuals table and its year totals.
func (s *Service) MonthlySummary(ctx context.Context, unitID string) ([]aggregation.MonthSummary, aggregation.YearTotals, error) {
	ts, err := s.Transactions(ctx, unitID)
	if err != nil {
		return nil, aggregation.YearTotals{}, err
	}
	rows := aggregation.MonthlyActuals(s.months, ts)
	return rows, aggregation.SumYear(rows), nil
}

// ProjectionSummary derives the 12-row projection table and its year totals.
func (s *Service) ProjectionSummary(ctx context.Context, unitID string) ([]aggregation.ProjectionRow, aggregation.ProjectionTotals, error) {
	ps, err := s.Projections(ctx, unitID)
	if err != nil {
		return nil, aggregation.ProjectionTotals{}, err
	}
	rows, totals := aggregation.ProjectionTable(s.months, unitID, ps)
	return rows, totals, nil
}

// CapitalSummary derives the capital expense totals for a unit.
func (s *Service) CapitalSummary(ctx context.Context, unitID string) (aggregation.CapitalTotals, error) {
	items, err := s.CapitalExpenses(ctx, unitID)
	if err != nil {
		return aggregation.CapitalTotals{}, err
	}
	return aggregation.SumCapitalExpenses(items), nil
}

// ROI derives the return-on-investment report for a unit.
func (s *Service) ROI(ctx context.Context, unitID string) (aggregation.ROIReport, error) {
	items, err := s.CapitalExpenses(ctx, unitID)
	if err != nil {
		return aggregation.ROIReport{}, err
	}
	ts, err := s.Transactions(ctx, unitID)
	if err != nil {
		return aggregation.ROIReport{}, err
	}
	return aggregation.ComputeROI(s.months, items, ts), nil
}
