package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	client    *mongo.Client
	database  *mongo.Database
	rulesColl *mongo.Collection
}

// recordDoc keeps the JSON document as a string so the store stays schema-less.
type recordDoc struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoStore creates a new MongoStore with the given connection string and database name.
func NewMongoStore(ctx context.Context, connectionString, dbName string) (*MongoStore, error) {
	clientOptions := options.Client().ApplyURI(connectionString)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &MongoStore{
		client:    client,
		database:  db,
		rulesColl: db.Collection("rules"),
	}, nil
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetAll retrieves every record from MongoDB.
func (s *MongoStore) GetAll(ctx context.Context) (Records, error) {
	cursor, err := s.rulesColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []recordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make(Records, len(docs))
	for _, doc := range docs {
		records[doc.ID] = []byte(doc.Content)
	}
	return records, nil
}

// Get retrieves a single record by key from MongoDB.
func (s *MongoStore) Get(ctx context.Context, key string) (Records, error) {
	var doc recordDoc
	err := s.rulesColl.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Records{}, nil
		}
		return nil, err
	}
	return Records{doc.ID: []byte(doc.Content)}, nil
}

// Set upserts every record in a single ordered bulk write.
func (s *MongoStore) Set(ctx context.Context, records Records) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(records))
	for key, data := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": key}).
			SetReplacement(recordDoc{ID: key, Content: string(data), UpdatedAt: now}).
			SetUpsert(true))
	}

	_, err := s.rulesColl.BulkWrite(ctx, models)
	return err
}

// Remove deletes a record from MongoDB.
func (s *MongoStore) Remove(ctx context.Context, key string) error {
	_, err := s.rulesColl.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
