package repository

import (
	"context"

	"notes-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRequestLogRepository struct {
	collection *mongo.Collection
}

func NewMongoRequestLogRepository(collection *mongo.Collection) *MongoRequestLogRepository {
	return &MongoRequestLogRepository{collection: collection}
}

func (r *MongoRequestLogRepository) SaveRequestLog(ctx context.Context, entry models.RequestLog) error {
	_, err := r.collection.InsertOne(ctx, bson.M{
		"datetime":        entry.Datetime,
		"method":          entry.Method,
		"endpoint":        entry.Endpoint,
		"request_headers": entry.RequestHeaders,
		"payload":         string(entry.Payload),
		"response_body":   string(entry.ResponseBody),
		"status_code":     entry.StatusCode,
	})
	return err
}
