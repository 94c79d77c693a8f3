package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTitleRepository struct {
	collection *mongo.Collection
}

func NewMongoTitleRepository(collection *mongo.Collection) *MongoTitleRepository {
	return &MongoTitleRepository{collection: collection}
}

func (r *MongoTitleRepository) FindTitle(ctx context.Context, userID string) (string, error) {
	var doc struct {
		Title string `bson:"title"`
	}
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Title, nil
}

func (r *MongoTitleRepository) SaveTitle(ctx context.Context, userID, title string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"title":      title,
			"updated_at": time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
