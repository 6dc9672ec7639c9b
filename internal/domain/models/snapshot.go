package models

import "time"

// SummarySnapshot is the scheduler-produced rollup persisted per unit so the
// dashboard keeps a history of year totals over time.
type SummarySnapshot struct {
	UnitID        string    `bson:"unit_id" json:"unitId"`
	UnitName      string    `bson:"unit_name" json:"unitName"`
	OwnerID       string    `bson:"owner_id" json:"ownerId"`
	TotalIncome   float64   `bson:"total_income" json:"totalIncome"`
	TotalExpenses float64   `bson:"total_expenses" json:"totalExpenses"`
	NetProfit     float64   `bson:"net_profit" json:"netProfit"`
	TotalCapital  float64   `bson:"total_capital" json:"totalCapital"`
	ROI           float64   `bson:"roi" json:"roi"`
	ROIMeasured   bool      `bson:"roi_measured" json:"roiMeasured"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}
