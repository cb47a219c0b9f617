package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

const accessEventsCollection = "access_events"

// AccessEventRepository implements ports.AccessEventRepository using MongoDB.
// The collection is append-only.
type AccessEventRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAccessEventRepository creates a new AccessEventRepository.
func NewAccessEventRepository(db *mongo.Database) *AccessEventRepository {
	return &AccessEventRepository{
		coll: db.Collection(accessEventsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.AccessEventRepository = (*AccessEventRepository)(nil)

// EnsureIndexes creates the indexes backing per-user and per-center history.
func (r *AccessEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "scanned_at", Value: -1}}},
		{Keys: bson.D{{Key: "center_id", Value: 1}, {Key: "scanned_at", Value: -1}}},
	})
	return err
}

// Insert persists one attendance event, stamping RecordedAt.
func (r *AccessEventRepository) Insert(ctx context.Context, event *domain.AccessEvent) error {
	event.ScannedAt = event.ScannedAt.UTC()
	event.RecordedAt = r.now()
	_, err := r.coll.InsertOne(ctx, event)
	return err
}

// List returns matching events, newest first.
func (r *AccessEventRepository) List(ctx context.Context, f ports.AccessHistoryFilter) ([]domain.AccessEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scanned_at", Value: -1}}).
		SetLimit(int64(f.Limit))

	cur, err := r.coll.Find(ctx, historyFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := make([]domain.AccessEvent, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func historyFilter(f ports.AccessHistoryFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.CenterID != "" {
		filter["center_id"] = f.CenterID
	}
	window := bson.M{}
	if !f.From.IsZero() {
		window["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		window["$lte"] = f.To.UTC()
	}
	if len(window) > 0 {
		filter["scanned_at"] = window
	}
	return filter
}
