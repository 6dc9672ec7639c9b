package models

import "time"

// Unit identifies a single rental property. All financial records are
// scoped to exactly one unit and one owner.
type Unit struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// CapitalExpense captures a one-off furnishing/setup expenditure for a unit.
// Monetary fields default to zero when absent.
type CapitalExpense struct {
	ID            string    `bson:"_id" json:"id"`
	UnitID        string    `bson:"unit_id" json:"unitId"`
	OwnerID       string    `bson:"owner_id" json:"ownerId"`
	Item          string    `bson:"item" json:"item"`
	TotalBudget   float64   `bson:"total_budget" json:"totalBudget"`
	AdvancePaid1  float64   `bson:"advance_paid_1" json:"advancePaid1"`
	AdvancePaid2  float64   `bson:"advance_paid_2" json:"advancePaid2"`
	AdvancePaid3  float64   `bson:"advance_paid_3" json:"advancePaid3"`
	AdvancePaid4  float64   `bson:"advance_paid_4" json:"advancePaid4"`
	AdvancePaid5  float64   `bson:"advance_paid_5" json:"advancePaid5"`
	ActualExpense float64   `bson:"actual_expense" json:"actualExpense"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	LastUpdated   time.Time `bson:"last_updated,omitempty" json:"lastUpdated,omitzero"`
}

// TransactionKind distinguishes guest-stay tariff rows from everything else.
type TransactionKind string

const (
	KindTariff TransactionKind = "tariff"
	KindOther  TransactionKind = "other"
)

// FlowType marks a daily transaction as money in or money out.
type FlowType string

const (
	FlowIncome  FlowType = "Income"
	FlowExpense FlowType = "Expense"
)

// DailyTransaction is a single income or expense entry for a unit.
//
// MonthYear is a denormalized index derived from Date at write time; it must
// never be set independently of Date. Tariff rows always carry
// Type=Income and Category=TariffCategory, and their effective income is
// Nights x Amount. Transactions are create-only: there is no edit or delete
// path for them anywhere in the system.
type DailyTransaction struct {
	ID              string          `bson:"_id" json:"id"`
	UnitID          string          `bson:"unit_id" json:"unitId"`
	OwnerID         string          `bson:"owner_id" json:"ownerId"`
	Date            string          `bson:"date" json:"date"` // YYYY-MM-DD
	MonthYear       string          `bson:"month_year" json:"monthYear"`
	TransactionType TransactionKind `bson:"transaction_type" json:"transactionType"`
	Type            FlowType        `bson:"type" json:"type"`
	Category        string          `bson:"category" json:"category"`
	Amount          float64         `bson:"amount" json:"amount"`
	Nights          float64         `bson:"nights,omitempty" json:"nights,omitempty"`
	GuestName       string          `bson:"guest_name,omitempty" json:"guestName,omitempty"`
	Description     string          `bson:"description" json:"description"`
	Notes           string          `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
}

// MonthlyProjection is the user-entered forecast for one (unit, month) pair.
// It is keyed by the composite identifier "<unitID>_<month>" and upserted on
// edit, never deleted.
type MonthlyProjection struct {
	ID      string `bson:"_id" json:"-"`
	UnitID  string `bson:"unit_id" json:"unitId,omitempty"`
	OwnerID string `bson:"owner_id" json:"ownerId,omitempty"`
	Month   string `bson:"month" json:"month"`

	ProjectedIncome float64 `bson:"projected_income" json:"projectedIncome"`

	ProjectedRent                  float64 `bson:"projected_rent" json:"projectedRent"`
	ProjectedCleaning              float64 `bson:"projected_cleaning" json:"projectedCleaning"`
	ProjectedUtilities             float64 `bson:"projected_utilities" json:"projectedUtilities"`
	ProjectedSupplies              float64 `bson:"projected_supplies" json:"projectedSupplies"`
	ProjectedMaintenanceRepairs    float64 `bson:"projected_maintenance_repairs" json:"projectedMaintenanceRepairs"`
	ProjectedPropertyCosts         float64 `bson:"projected_property_costs" json:"projectedPropertyCosts"`
	ProjectedPlatformFees          float64 `bson:"projected_platform_fees" json:"projectedPlatformFees"`
	ProjectedMarketingAdvertising  float64 `bson:"projected_marketing_advertising" json:"projectedMarketingAdvertising"`
	ProjectedGuestAmenities        float64 `bson:"projected_guest_amenities" json:"projectedGuestAmenities"`
	ProjectedTravelTransportation  float64 `bson:"projected_travel_transportation" json:"projectedTravelTransportation"`
	ProjectedProfessionalServices  float64 `bson:"projected_professional_services" json:"projectedProfessionalServices"`
	ProjectedMiscellaneousExpenses float64 `bson:"projected_miscellaneous_expenses" json:"projectedMiscellaneousExpenses"`

	LastUpdated time.Time `bson:"last_updated,omitempty" json:"lastUpdated,omitzero"`
}

// ProjectionDocID builds the composite repository key for a projection.
func ProjectionDocID(unitID, month string) string {
	return unitID + "_" + month
}
