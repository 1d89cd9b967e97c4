package recordsRepo

import (
	"context"

	"aitana/database"
	"aitana/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// RecordRepository stores dispatched booking summaries for the back office.
type RecordRepository interface {
	Create(ctx context.Context, record models.HandoffRecord) (string, error)
	ListRecent(ctx context.Context, limit int64) ([]models.HandoffRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a Mongo-backed record repository.
func NewMongoRecordRepo() RecordRepository {
	return &mongoRecordRepo{
		coll: database.MongoClient.Database("aitana").Collection("handoffs"),
	}
}
