package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	client   *mongo.Client
	database *mongo.Database
)

// InitMongoDB initializes the MongoDB connection
func InitMongoDB(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	var err error
	client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Ping the database to verify connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	database = client.Database(dbName)

	log.Println("Connected to MongoDB successfully")
	return nil
}

// GetCollection returns a MongoDB collection
func GetCollection(collectionName string) *mongo.Collection {
	return database.Collection(collectionName)
}

// GetClient returns the MongoDB client
func GetClient() *mongo.Client {
	return client
}

// Close closes the MongoDB connection
func Close() error {
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return client.Disconnect(ctx)
	}
	return nil
}

// EnsureIndexes creates the uniqueness and lookup indexes the story and
// platform collections rely on.
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"chapters": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "chapter_number", Value: 1}}},
		},
		"story_progress": {
			{Keys: bson.D{{Key: "wallet_address", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"story_choices": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "wallet_address", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		"story_votes": {
			{Keys: bson.D{{Key: "wallet_address", Value: 1}, {Key: "vote_type", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "vote_type", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		"staking_positions": {
			{Keys: bson.D{{Key: "wallet_address", Value: 1}}},
		},
		"telegram_subscriptions": {
			{Keys: bson.D{{Key: "wallet_address", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"ai_content": {
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := GetCollection(name).Indexes().CreateMany(ctx, idx); err != nil {
			log.Printf("Failed to create indexes for %s: %v", name, err)
		}
	}
}
