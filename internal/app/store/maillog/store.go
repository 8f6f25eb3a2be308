// internal/app/store/maillog/store.go
package maillog

import (
	"context"
	"time"

	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store records replies sent from the admin console.
type Store struct {
	c *mongo.Collection
}

// New creates a new mail log Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mail_log")}
}

// EnsureIndexes creates the listing indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// Record stores rec, assigning an id and timestamp when missing.
func (s *Store) Record(ctx context.Context, rec models.MailRecord) (models.MailRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return rec, err
}

// Recent lists the newest records, optionally for one recipient.
func (s *Store) Recent(ctx context.Context, to string, limit int64) ([]models.MailRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	filter := bson.M{}
	if to != "" {
		filter["to"] = to
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MailRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
