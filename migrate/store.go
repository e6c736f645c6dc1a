package migrate

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document is one raw user document: id plus its decoded field map.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Store is the slice of the document store the migrator needs. The Mongo
// implementation below backs production runs; tests substitute an in-memory
// one.
type Store interface {
	ListUsers(ctx context.Context) ([]Document, error)
	ApplyPatch(ctx context.Context, id string, patch map[string]interface{}) error
	DeleteFields(ctx context.Context, id string, fields []string) error
	WriteDocument(ctx context.Context, id string, fields map[string]interface{}) error
}

// MongoStore adapts a users collection to the Store interface.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps the given users collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]Document, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var fields bson.M
		if err := cursor.Decode(&fields); err != nil {
			return nil, err
		}
		id := documentID(fields["_id"])
		delete(fields, "_id")
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, cursor.Err()
}

func (s *MongoStore) ApplyPatch(ctx context.Context, id string, patch map[string]interface{}) error {
	result, err := s.collection.UpdateByID(ctx, id, bson.M{"$set": patch})
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return fmt.Errorf("no matched document found for update")
	}
	return nil
}

func (s *MongoStore) DeleteFields(ctx context.Context, id string, fields []string) error {
	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	_, err := s.collection.UpdateByID(ctx, id, bson.M{"$unset": unset})
	return err
}

func (s *MongoStore) WriteDocument(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": id}, fields,
		options.Replace().SetUpsert(true))
	return err
}

func documentID(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprintf("%v", raw)
	}
}
