package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogsphere/api/internal/core/domain"
)

const activityCollection = "auth_events"

// ActivityRepository stores auth activity events in MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type activityDoc struct {
	Kind       string    `bson:"kind"`
	Username   string    `bson:"username"`
	IdentityID int64     `bson:"identity_id,omitempty"`
	Success    bool      `bson:"success"`
	IP         string    `bson:"ip,omitempty"`
	At         time.Time `bson:"at"`
}

// EnsureIndexes creates the lookup index on (username, at) and, when
// retention is positive, a TTL index expiring old events.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "at", Value: -1}}},
	}
	if retention > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention / time.Second)),
		})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create activity indexes: %w", err)
	}
	return nil
}

// Record implements ports.ActivitySink.
func (r *ActivityRepository) Record(ctx context.Context, event domain.ActivityEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	doc := activityDoc{
		Kind:       string(event.Kind),
		Username:   event.Username,
		IdentityID: event.IdentityID,
		Success:    event.Success,
		IP:         event.IP,
		At:         at.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
