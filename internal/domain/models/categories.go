package models

// TariffCategory is the fixed category applied to every tariff transaction.
const TariffCategory = "Accommodation"

// IncomeCategories enumerates the selectable categories for non-tariff
// income rows.
var IncomeCategories = []string{
	"Guest Payment",
	"Cleaning Fees",
	"Other",
}

// ExpenseCategories enumerates the selectable categories for expense rows.
var ExpenseCategories = []string{
	"Rent/Mortgage",
	"Cleaning",
	"Utilities",
	"Supplies",
	"Maintenance/Repairs",
	"Property Costs (Taxes, Insurance)",
	"Platform Fees (Airbnb, Vrbo)",
	"Marketing/Advertising",
	"Guest Amenities",
	"Travel/Transportation",
	"Professional Services",
	"Miscellaneous",
}

// ProjectionField pairs a projection expense field key with its display label.
type ProjectionField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ProjectionExpenseFields is the ordered schema of the twelve projected
// expense categories. Totalling a projection means summing exactly these
// twelve fields, in this order.
var ProjectionExpenseFields = []ProjectionField{
	{Key: "projectedRent", Label: "Rent/Mortgage"},
	{Key: "projectedCleaning", Label: "Cleaning"},
	{Key: "projectedUtilities", Label: "Utilities"},
	{Key: "projectedSupplies", Label: "Supplies"},
	{Key: "projectedMaintenanceRepairs", Label: "Maintenance/Repairs"},
	{Key: "projectedPropertyCosts", Label: "Property Costs"},
	{Key: "projectedPlatformFees", Label: "Platform Fees"},
	{Key: "projectedMarketingAdvertising", Label: "Marketing/Advertising"},
	{Key: "projectedGuestAmenities", Label: "Guest Amenities"},
	{Key: "projectedTravelTransportation", Label: "Travel/Transportation"},
	{Key: "projectedProfessionalServices", Label: "Professional Services"},
	{Key: "projectedMiscellaneousExpenses", Label: "Miscellaneous"},
}

// ExpenseField returns the projected expense amount addressed by a schema
// key, or 0 for unknown keys.
func (p MonthlyProjection) ExpenseField(key string) float64 {
	switch key {
	case "projectedRent":
		return p.ProjectedRent
	case "projectedCleaning":
		return p.ProjectedCleaning
	case "projectedUtilities":
		return p.ProjectedUtilities
	case "projectedSupplies":
		return p.ProjectedSupplies
	case "projectedMaintenanceRepairs":
		return p.ProjectedMaintenanceRepairs
	case "projectedPropertyCosts":
		return p.ProjectedPropertyCosts
	case "projectedPlatformFees":
		return p.ProjectedPlatformFees
	case "projectedMarketingAdvertising":
		return p.ProjectedMarketingAdvertising
	case "projectedGuestAmenities":
		return p.ProjectedGuestAmenities
	case "projectedTravelTransportation":
		return p.ProjectedTravelTransportation
	case "projectedProfessionalServices":
		return p.ProjectedProfessionalServices
	case "projectedMiscellaneousExpenses":
		return p.ProjectedMiscellaneousExpenses
	default:
		return 0
	}
}

// BaseProjection returns the all-zero projection record used when no stored
// projection exists for a (unit, month) pair.
func BaseProjection(unitID, month string) MonthlyProjection {
	return MonthlyProjection{
		ID:     ProjectionDocID(unitID, month),
		UnitID: unitID,
		Month:  month,
	}
}
