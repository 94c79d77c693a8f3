package repository

import (
	"context"
	"errors"
	"time"

	"notes-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type noteDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	Date          *string            `bson:"date"`
	Type          string             `bson:"type"`
	Content       string             `bson:"content"`
	Status        *string            `bson:"status"`
	ShareToken    *string            `bson:"share_token,omitempty"`
	Collaborators []string           `bson:"collaborators"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d noteDocument) toModel() models.Note {
	note := models.Note{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Date:          d.Date,
		Type:          models.NoteType(d.Type),
		Content:       d.Content,
		ShareToken:    d.ShareToken,
		Collaborators: d.Collaborators,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Status != nil {
		s := models.NoteStatus(*d.Status)
		note.Status = &s
	}
	return note
}

type MongoNoteRepository struct {
	collection *mongo.Collection
}

func NewMongoNoteRepository(collection *mongo.Collection) *MongoNoteRepository {
	return &MongoNoteRepository{collection: collection}
}

// EnsureIndexes creates the owner, collaborator and share token indexes.
func (r *MongoNoteRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "collaborators", Value: 1}}},
		{
			Keys: bson.D{{Key: "share_token", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"share_token": bson.M{"$type": "string"}}),
		},
	})
	return err
}

func (r *MongoNoteRepository) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	now := time.Now().UTC()
	doc := noteDocument{
		ID:            primitive.NewObjectID(),
		UserID:        note.UserID,
		Date:          note.Date,
		Type:          string(note.Type),
		Content:       note.Content,
		Collaborators: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if note.Status != nil {
		s := string(*note.Status)
		doc.Status = &s
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return models.Note{}, err
	}
	return doc.toModel(), nil
}

func (r *MongoNoteRepository) findOne(ctx context.Context, filter bson.M) (models.Note, error) {
	var doc noteDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	return doc.toModel(), nil
}

func (r *MongoNoteRepository) FindNoteByID(ctx context.Context, id string) (models.Note, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Note{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *MongoNoteRepository) FindNotesForUser(ctx context.Context, userID string) ([]models.Note, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user_id": userID},
		bson.M{"collaborators": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []noteDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	notes := make([]models.Note, 0, len(docs))
	for _, doc := range docs {
		notes = append(notes, doc.toModel())
	}
	return notes, nil
}

func (r *MongoNoteRepository) FindNoteByShareToken(ctx context.Context, token string) (models.Note, error) {
	return r.findOne(ctx, bson.M{"share_token": token})
}

func (r *MongoNoteRepository) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Note{}, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Type != nil {
		set["type"] = string(*patch.Type)
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.ClearStatus {
		set["status"] = nil
	}

	var doc noteDocument
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	return doc.toModel(), nil
}

func (r *MongoNoteRepository) DeleteNoteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNoteRepository) SetShareToken(ctx context.Context, id, token string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"share_token": token, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(false),
	)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNoteRepository) AddCollaborator(ctx context.Context, id, userID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "user_id": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"collaborators": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// either missing or the caller owns it
		if _, err := r.FindNoteByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
