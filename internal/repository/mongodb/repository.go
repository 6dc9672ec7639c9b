package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayledger/internal/domain/models"
)

// Collection names for the five record kinds.
const (
	CollUnits             = "units"
	CollCapitalExpenses   = "capital_expenses"
	CollDailyTransactions = "daily_transactions"
	CollProjections       = "monthly_projections"
	CollSnapshots         = "summary_snapshots"
)

// ErrNotFound is returned when an update or delete matches no record.
var ErrNotFound = errors.New("record not found")

// ChangeEvent signals that a watched collection changed for the subscribed
// unit. Consumers refetch; the event carries no document payload.
type ChangeEvent struct {
	Collection string
	Operation  string
}

// Repository defines the record store contract consumed by the services.
// Every query is scoped by owner and, below unit level, by unit.
type Repository interface {
	CreateUnit(ctx context.Context, unit models.Unit) error
	ListUnits(ctx context.Context, ownerID string) ([]models.Unit, error)

	CreateCapitalExpense(ctx context.Context, item models.CapitalExpense) error
	UpdateCapitalExpense(ctx context.Context, item models.CapitalExpense) error
	DeleteCapitalExpense(ctx context.Context, ownerID, id string) error
	ListCapitalExpenses(ctx context.Context, ownerID, unitID string) ([]models.CapitalExpense, error)

	CreateTransaction(ctx context.Context, t models.DailyTransaction) error
	CreateTransactions(ctx context.Context, ts []models.DailyTransaction) error
	ListTransactions(ctx context.Context, ownerID, unitID string) ([]models.DailyTransaction, error)

	UpsertProjection(ctx context.Context, p models.MonthlyProjection) error
	ListProjections(ctx context.Context, ownerID, unitID string) ([]models.MonthlyProjection, error)

	SaveSnapshot(ctx context.Context, s models.SummarySnapshot) error

	WatchUnit(ctx context.Context, collection, unitID string) (<-chan ChangeEvent, error)
}

// MongoRepository implements Repository backed by MongoDB.
type MongoRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoRepository connects to MongoDB and verifies the connection.
func NewMongoRepository(ctx context.Context, uri, dbName string) (*MongoRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoRepository{client: client, dbName: dbName}, nil
}

func (r *MongoRepository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// CreateUnit inserts a new rental unit.
func (r *MongoRepository) CreateUnit(ctx context.Context, unit models.Unit) error {
	if _, err := r.coll(CollUnits).InsertOne(ctx, unit); err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// ListUnits returns all units owned by the given owner, oldest first.
func (r *MongoRepository) ListUnits(ctx context.Context, ownerID string) ([]models.Unit, error) {
	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll(CollUnits).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find units: %w", err)
	}

	var units []models.Unit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("decode units: %w", err)
	}
	return units, nil
}

// CreateCapitalExpense inserts a capital expense record.
func (r *MongoRepository) CreateCapitalExpense(ctx context.Context, item models.CapitalExpense) error {
	if _, err := r.coll(CollCapitalExpenses).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert capital expense: %w", err)
	}
	return nil
}

// UpdateCapitalExpense overwrites the editable fields of an existing record.
func (r *MongoRepository) UpdateCapitalExpense(ctx context.Context, item models.CapitalExpense) error {
	filter := bson.M{"_id": item.ID, "owner_id": item.OwnerID}
	update := bson.M{"$set": bson.M{
		"item":           item.Item,
		"total_budget":   item.TotalBudget,
		"advance_paid_1": item.AdvancePaid1,
		"advance_paid_2": item.AdvancePaid2,
		"advance_paid_3": item.AdvancePaid3,
		"advance_paid_4": item.AdvancePaid4,
		"advance_paid_5": item.AdvancePaid5,
		"actual_expense": item.ActualExpense,
		"notes":          item.Notes,
		"last_updated":   item.LastUpdated,
	}}

	res, err := r.coll(CollCapitalExpenses).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update capital expense %s: %w", item.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCapitalExpense removes a capital expense record owned by ownerID.
func (r *MongoRepository) DeleteCapitalExpense(ctx context.Context, ownerID, id string) error {
	res, err := r.coll(CollCapitalExpenses).DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete capital expense %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCapitalExpenses returns the unit's capital expenses, oldest first.
func (r *MongoRepository) ListCapitalExpenses(ctx context.Context, ownerID, unitID string) ([]models.CapitalExpense, error) {
	filter := bson.M{"owner_id": ownerID, "unit_id": unitID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll(CollCapitalExpenses).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find capital expenses: %w", err)
	}

	var items []models.CapitalExpense
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode capital expenses: %w", err)
	}
	return items, nil
}

// CreateTransaction inserts one daily transaction. Transactions are
// create-only; the repository exposes no update or delete for them.
func (r *MongoRepository) CreateTransaction(ctx context.Context, t models.DailyTransaction) error {
	if _, err := r.coll(CollDailyTransactions).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateTransactions inserts a CSV import batch in one call.
func (r *MongoRepository) CreateTransactions(ctx context.Context, ts []models.DailyTransaction) error {
	if len(ts) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(ts))
	for _, t := range ts {
		docs = append(docs, t)
	}

	if _, err := r.coll(CollDailyTransactions).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert transaction batch: %w", err)
	}
	return nil
}

// ListTransactions returns the unit's daily transactions sorted by date.
func (r *MongoRepository) ListTransactions(ctx context.Context, ownerID, unitID string) ([]models.DailyTransaction, error) {
	filter := bson.M{"owner_id": ownerID, "unit_id": unitID}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := r.coll(CollDailyTransactions).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	var ts []models.DailyTransaction
	if err := cursor.All(ctx, &ts); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return ts, nil
}

// UpsertProjection creates or merges the projection for its (unit, month)
// composite key. Projections are never deleted.
func (r *MongoRepository) UpsertProjection(ctx context.Context, p models.MonthlyProjection) error {
	filter := bson.M{"_id": p.ID}
	update := bson.M{"$set": bson.M{
		"unit_id":                          p.UnitID,
		"owner_id":                         p.OwnerID,
		"month":                            p.Month,
		"projected_income":                 p.ProjectedIncome,
		"projected_rent":                   p.ProjectedRent,
		"projected_cleaning":               p.ProjectedCleaning,
		"projected_utilities":              p.ProjectedUtilities,
		"projected_supplies":               p.ProjectedSupplies,
		"projected_maintenance_repairs":    p.ProjectedMaintenanceRepairs,
		"projected_property_costs":         p.ProjectedPropertyCosts,
		"projected_platform_fees":          p.ProjectedPlatformFees,
		"projected_marketing_advertising":  p.ProjectedMarketingAdvertising,
		"projected_guest_amenities":        p.ProjectedGuestAmenities,
		"projected_travel_transportation":  p.ProjectedTravelTransportation,
		"projected_professional_services":  p.ProjectedProfessionalServices,
		"projected_miscellaneous_expenses": p.ProjectedMiscellaneousExpenses,
		"last_updated":                     p.LastUpdated,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll(CollProjections).UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert projection %s: %w", p.ID, err)
	}
	return nil
}

// ListProjections returns all stored projections for a unit.
func (r *MongoRepository) ListProjections(ctx context.Context, ownerID, unitID string) ([]models.MonthlyProjection, error) {
	filter := bson.M{"owner_id": ownerID, "unit_id": unitID}

	cursor, err := r.coll(CollProjections).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find projections: %w", err)
	}

	var ps []models.MonthlyProjection
	if err := cursor.All(ctx, &ps); err != nil {
		return nil, fmt.Errorf("decode projections: %w", err)
	}
	return ps, nil
}

// SaveSnapshot persists a scheduler-produced summary snapshot.
func (r *MongoRepository) SaveSnapshot(ctx context.Context, s models.SummarySnapshot) error {
	if _, err := r.coll(CollSnapshots).InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert summary snapshot: %w", err)
	}
	return nil
}

// WatchUnit opens a change stream on one collection filtered to a unit and
// streams change notifications until ctx is cancelled. Delete events carry no
// full document and are passed through unfiltered; consumers refetch either
// way.
func (r *MongoRepository) WatchUnit(ctx context.Context, collection, unitID string) (<-chan ChangeEvent, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"fullDocument.unit_id": unitID},
			bson.M{"operationType": "delete"},
		}}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.coll(collection).Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", collection, err)
	}

	events := make(chan ChangeEvent)
	go func() {
		defer close(events)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = stream.Close(closeCtx)
		}()

		for stream.Next(ctx) {
			var change struct {
				OperationType string `bson:"operationType"`
			}
			if err := stream.Decode(&change); err != nil {
				continue
			}
			select {
			case events <- ChangeEvent{Collection: collection, Operation: change.OperationType}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// Close disconnects the underlying client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
