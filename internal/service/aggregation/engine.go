// Package aggregation derives monthly and yearly financial rollups from raw
// record sets. Every function here is pure: no I/O, no hidden state, full
// recomputation from its inputs on every call, so callers may re-run them on
// each data change.
package aggregation

import (
	"stayledger/internal/domain/models"
)

// CapitalTotals is the rollup over a unit's capital expense records.
type CapitalTotals struct {
	TotalBudget      float64 `json:"totalBudget"`
	TotalAdvancePaid float64 `json:"totalAdvancePaid"`
	ActualExpense    float64 `json:"actualExpense"`
}

// MonthSummary is one row of the 12-month actuals table.
type MonthSummary struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// YearTotals is the element-wise sum of the 12 monthly rows.
type YearTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// ProjectionRow is a stored (or defaulted) projection plus its derived
// totals.
type ProjectionRow struct {
	models.MonthlyProjection
	TotalProjectedExpenses float64 `json:"totalProjectedExpenses"`
	ProjectedNet           float64 `json:"projectedNetProfitLoss"`
}

// ProjectionTotals is the year rollup of the projection table.
type ProjectionTotals struct {
	ProjectedIncome        float64 `json:"projectedIncome"`
	TotalProjectedExpenses float64 `json:"totalProjectedExpenses"`
	ProjectedNet           float64 `json:"projectedNetProfitLoss"`
}

// ROIReport relates one year's net actual profit to total capital spend.
// Measured is false when no capital actuals exist; the ROI value is then 0
// and must be presented as "not yet meaningful" rather than a real zero.
type ROIReport struct {
	TotalCapital  float64 `json:"totalCapital"`
	YearNetProfit float64 `json:"yearNetProfit"`
	ROI           float64 `json:"roi"`
	Measured      bool    `json:"measured"`
}

// EffectiveIncome returns the income contribution of a transaction: nights x
// amount for tariff stays, the plain amount otherwise.
func EffectiveIncome(t models.DailyTransaction) float64 {
	if t.TransactionType == models.KindTariff {
		return models.Num(t.Nights) * models.Num(t.Amount)
	}
	return models.Num(t.Amount)
}

// SumCapitalExpenses reduces capital expense records into their totals. The
// advance-paid total sums all five advance fields of every record, each
// coerced to zero when absent.
func SumCapitalExpenses(items []models.CapitalExpense) CapitalTotals {
	var totals CapitalTotals
	for _, item := range items {
		totals.TotalBudget += models.Num(item.TotalBudget)
		totals.TotalAdvancePaid += AdvancePaid(item)
		totals.ActualExpense += models.Num(item.ActualExpense)
	}
	return totals
}

// AdvancePaid sums the five advance instalments of a single record.
func AdvancePaid(item models.CapitalExpense) float64 {
	return models.Num(item.AdvancePaid1) +
		models.Num(item.AdvancePaid2) +
		models.Num(item.AdvancePaid3) +
		models.Num(item.AdvancePaid4) +
		models.Num(item.AdvancePaid5)
}

// MonthlyActuals produces one summary row per month of the fixed financial
// year domain, in domain order, zero-filled for months without transactions.
// Transactions are matched by exact MonthYear label.
func MonthlyActuals(months []string, transactions []models.DailyTransaction) []MonthSummary {
	rows := make([]MonthSummary, 0, len(months))
	for _, month := range months {
		row := MonthSummary{Month: month}
		for _, t := range transactions {
			if t.MonthYear != month {
				continue
			}
			switch t.Type {
			case models.FlowIncome:
				row.Income += EffectiveIncome(t)
			case models.FlowExpense:
				row.Expense += models.Num(t.Amount)
			}
		}
		row.Net = row.Income - row.Expense
		rows = append(rows, row)
	}
	return rows
}

// SumYear folds the monthly rows into year totals.
func SumYear(rows []MonthSummary) YearTotals {
	var totals YearTotals
	for _, row := range rows {
		totals.Income += row.Income
		totals.Expense += row.Expense
		totals.Net += row.Net
	}
	return totals
}

// ProjectionTable builds the 12-row projection view for a unit. Months with
// no stored projection get the zero default record. Total projected expenses
// sum the twelve schema fields; projected net is income minus that sum.
func ProjectionTable(months []string, unitID string, stored []models.MonthlyProjection) ([]ProjectionRow, ProjectionTotals) {
	byMonth := make(map[string]models.MonthlyProjection, len(stored))
	for _, p := range stored {
		byMonth[p.Month] = p
	}

	rows := make([]ProjectionRow, 0, len(months))
	var totals ProjectionTotals

	for _, month := range months {
		p, ok := byMonth[month]
		if !ok {
			p = models.BaseProjection(unitID, month)
		}

		var expenses float64
		for _, field := range models.ProjectionExpenseFields {
			expenses += models.Num(p.ExpenseField(field.Key))
		}

		row := ProjectionRow{
			MonthlyProjection:      p,
			TotalProjectedExpenses: expenses,
			ProjectedNet:           models.Num(p.ProjectedIncome) - expenses,
		}
		rows = append(rows, row)

		totals.ProjectedIncome += models.Num(p.ProjectedIncome)
		totals.TotalProjectedExpenses += expenses
		totals.ProjectedNet += row.ProjectedNet
	}

	return rows, totals
}

// ComputeROI relates the year's net actual profit to the total actual
// capital expense. With zero capital spend the ratio is undefined: ROI is
// reported as 0 with Measured=false so the caller can say so instead of
// showing a real measurement.
func ComputeROI(months []string, capital []models.CapitalExpense, transactions []models.DailyTransaction) ROIReport {
	report := ROIReport{
		TotalCapital:  SumCapitalExpenses(capital).ActualExpense,
		YearNetProfit: SumYear(MonthlyActuals(months, transactions)).Net,
	}

	if report.TotalCapital > 0 {
		report.ROI = report.YearNetProfit / report.TotalCapital * 100
		report.Measured = true
	}
	return report
}
