package aggregation

import (
	"reflect"
	"testing"
	"time"

	"stayledger/internal/domain/models"
)

var testMonths = models.FinancialYearMonths(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))

func tariff(month string, nights, amount float64) models.DailyTransaction {
	return models.DailyTransaction{
		MonthYear:       month,
		TransactionType: models.KindTariff,
		Type:            models.FlowIncome,
		Category:        models.TariffCategory,
		Nights:          nights,
		Amount:          amount,
	}
}

func other(month string, flow models.FlowType, amount float64) models.DailyTransaction {
	return models.DailyTransaction{
		MonthYear:       month,
		TransactionType: models.KindOther,
		Type:            flow,
		Amount:          amount,
	}
}

func TestMonthlyActualsAlwaysTwelveRows(t *testing.T) {
	cases := []struct {
		name string
		tx   []models.DailyTransaction
	}{
		{"empty", nil},
		{"one month", []models.DailyTransaction{tariff("March 2026", 2, 1000)}},
		{"outside domain", []models.DailyTransaction{tariff("March 2020", 2, 1000)}},
	}
	for _, tc := range cases {
		rows := MonthlyActuals(testMonths, tc.tx)
		if len(rows) != 12 {
			t.Fatalf("%s: expected 12 rows, got %d", tc.name, len(rows))
		}
		for i, row := range rows {
			if row.Month != testMonths[i] {
				t.Fatalf("%s: row %d month %q, want %q", tc.name, i, row.Month, testMonths[i])
			}
		}
	}
}

func TestMonthlyActualsScenario(t *testing.T) {
	tx := []models.DailyTransaction{
		tariff("March 2026", 3, 2000),
		other("March 2026", models.FlowExpense, 500),
	}

	rows := MonthlyActuals(testMonths, tx)
	for _, row := range rows {
		if row.Month == "March 2026" {
			if row.Income != 6000 || row.Expense != 500 || row.Net != 5500 {
				t.Fatalf("March 2026 = %+v, want income 6000, expense 500, net 5500", row)
			}
			continue
		}
		if row.Income != 0 || row.Expense != 0 || row.Net != 0 {
			t.Fatalf("%s expected zero row, got %+v", row.Month, row)
		}
	}
}

func TestEffectiveIncome(t *testing.T) {
	cases := []struct {
		tx   models.DailyTransaction
		want float64
	}{
		{tariff("September 2025", 3, 2000), 6000},
		{other("September 2025", models.FlowIncome, 1500), 1500},
		{other("September 2025", models.FlowExpense, 800), 800},
	}
	for i, tc := range cases {
		if got := EffectiveIncome(tc.tx); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestSumYearMatchesMonthlyRows(t *testing.T) {
	tx := []models.DailyTransaction{
		tariff("September 2025", 2, 1500),
		other("October 2025", models.FlowIncome, 700),
		other("October 2025", models.FlowExpense, 300),
		other("August 2026", models.FlowExpense, 1200),
	}

	rows := MonthlyActuals(testMonths, tx)
	totals := SumYear(rows)

	var income, expense, net float64
	for _, row := range rows {
		income += row.Income
		expense += row.Expense
		net += row.Net
	}
	if totals.Income != income || totals.Expense != expense || totals.Net != net {
		t.Fatalf("year totals %+v do not match element-wise sums (%v, %v, %v)", totals, income, expense, net)
	}
	if totals.Income != 3700 || totals.Expense != 1500 || totals.Net != 2200 {
		t.Fatalf("year totals %+v, want income 3700, expense 1500, net 2200", totals)
	}
}

func TestSumCapitalExpenses(t *testing.T) {
	items := []models.CapitalExpense{
		{ActualExpense: 1000, TotalBudget: 2000, AdvancePaid1: 100, AdvancePaid2: 200},
		{ActualExpense: 0},
		{ActualExpense: 2500, AdvancePaid5: 50},
		{}, // all fields absent
		{ActualExpense: 500},
	}

	totals := SumCapitalExpenses(items)
	if totals.ActualExpense != 4000 {
		t.Fatalf("actual expense total = %v, want 4000", totals.ActualExpense)
	}
	if totals.TotalBudget != 2000 {
		t.Fatalf("budget total = %v, want 2000", totals.TotalBudget)
	}
	if totals.TotalAdvancePaid != 350 {
		t.Fatalf("advance total = %v, want 350", totals.TotalAdvancePaid)
	}
}

func TestProjectionTable(t *testing.T) {
	stored := []models.MonthlyProjection{
		{
			ID:                 models.ProjectionDocID("u1", "September 2025"),
			UnitID:             "u1",
			Month:              "September 2025",
			ProjectedIncome:    50000,
			ProjectedRent:      20000,
			ProjectedCleaning:  3000,
			ProjectedUtilities: 2000,
		},
	}

	rows, totals := ProjectionTable(testMonths, "u1", stored)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Month != "September 2025" {
		t.Fatalf("first row month %q", first.Month)
	}
	if first.TotalProjectedExpenses != 25000 {
		t.Fatalf("total projected expenses = %v, want 25000", first.TotalProjectedExpenses)
	}
	if first.ProjectedNet != 25000 {
		t.Fatalf("projected net = %v, want 25000", first.ProjectedNet)
	}

	// the other 11 months fall back to the zero default record
	for _, row := range rows[1:] {
		if row.ProjectedIncome != 0 || row.TotalProjectedExpenses != 0 || row.ProjectedNet != 0 {
			t.Fatalf("%s expected zero defaults, got %+v", row.Month, row)
		}
		if row.UnitID != "u1" {
			t.Fatalf("%s default row should carry the unit id", row.Month)
		}
	}

	if totals.ProjectedIncome != 50000 || totals.TotalProjectedExpenses != 25000 || totals.ProjectedNet != 25000 {
		t.Fatalf("year totals %+v", totals)
	}
}

func TestComputeROI(t *testing.T) {
	tx := []models.DailyTransaction{tariff("September 2025", 25, 1000)} // 25,000 net

	report := ComputeROI(testMonths, []models.CapitalExpense{{ActualExpense: 100000}}, tx)
	if !report.Measured {
		t.Fatal("expected measured roi")
	}
	if report.ROI != 25 {
		t.Fatalf("roi = %v, want 25", report.ROI)
	}
	if report.TotalCapital != 100000 || report.YearNetProfit != 25000 {
		t.Fatalf("report %+v", report)
	}
}

func TestComputeROIZeroCapital(t *testing.T) {
	tx := []models.DailyTransaction{tariff("September 2025", 5, 1000)}

	report := ComputeROI(testMonths, nil, tx)
	if report.Measured {
		t.Fatal("roi must be flagged unmeasured with zero capital")
	}
	if report.ROI != 0 {
		t.Fatalf("roi = %v, want 0", report.ROI)
	}
	if report.YearNetProfit != 5000 {
		t.Fatalf("year net profit = %v, want 5000", report.YearNetProfit)
	}
}

func TestAggregationIsIdempotent(t *testing.T) {
	tx := []models.DailyTransaction{
		tariff("September 2025", 2, 1500),
		other("March 2026", models.FlowExpense, 300),
	}
	capital := []models.CapitalExpense{{ActualExpense: 5000, AdvancePaid3: 100}}
	stored := []models.MonthlyProjection{{UnitID: "u1", Month: "March 2026", ProjectedIncome: 1000}}

	first := MonthlyActuals(testMonths, tx)
	second := MonthlyActuals(testMonths, tx)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("MonthlyActuals is not idempotent")
	}

	if SumCapitalExpenses(capital) != SumCapitalExpenses(capital) {
		t.Fatal("SumCapitalExpenses is not idempotent")
	}

	rowsA, totalsA := ProjectionTable(testMonths, "u1", stored)
	rowsB, totalsB := ProjectionTable(testMonths, "u1", stored)
	if !reflect.DeepEqual(rowsA, rowsB) || totalsA != totalsB {
		t.Fatal("ProjectionTable is not idempotent")
	}

	if ComputeROI(testMonths, capital, tx) != ComputeROI(testMonths, capital, tx) {
		t.Fatal("ComputeROI is not idempotent")
	}
}
