package mongo

import (
	"context"
	"time"

	"github.com/recrutai/platform/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExternalEventRepository interface {
	Insert(ctx context.Context, e *models.ExternalEvent) error
	ListByCompany(ctx context.Context, companyID string, limit int64) ([]models.ExternalEvent, error)
}

type externalEventRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewExternalEventRepo(db *mongo.Database, ttl time.Duration) ExternalEventRepository {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &externalEventRepo{col: db.Collection("external_events"), ttl: ttl}
}

func (r *externalEventRepo) Insert(ctx context.Context, e *models.ExternalEvent) error {
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}
	if e.ExpiresAt.IsZero() {
		e.ExpiresAt = e.ReceivedAt.Add(r.ttl)
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *externalEventRepo) ListByCompany(ctx context.Context, companyID string, limit int64) ([]models.ExternalEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"company_id": companyID},
		options.Find().
			SetSort(bson.D{{Key: "received_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ExternalEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
