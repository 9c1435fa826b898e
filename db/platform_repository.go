package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
)

// SaveWalletConnection stores a wallet session record.
func SaveWalletConnection(ctx context.Context, conn *models.WalletConnection) error {
	conn.Timestamp = time.Now().UTC()
	_, err := GetCollection("wallet_connections").InsertOne(ctx, conn)
	return err
}

// CountWalletConnections returns the total number of connect events.
func CountWalletConnections(ctx context.Context) (int64, error) {
	return GetCollection("wallet_connections").CountDocuments(ctx, bson.M{})
}

// CreateStakingPosition stores a new staking position.
func CreateStakingPosition(ctx context.Context, pos *models.StakingPosition) error {
	_, err := GetCollection("staking_positions").InsertOne(ctx, pos)
	return err
}

// GetStakingPositions returns all positions for a wallet, optionally
// filtered by status ("" means any).
func GetStakingPositions(ctx context.Context, wallet, status string) ([]models.StakingPosition, error) {
	filter := bson.M{"wallet_address": wallet}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := GetCollection("staking_positions").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var positions []models.StakingPosition
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// ListAllStakingPositions returns every position, for admin stats.
func ListAllStakingPositions(ctx context.Context) ([]models.StakingPosition, error) {
	cursor, err := GetCollection("staking_positions").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var positions []models.StakingPosition
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// SaveStream stores a provisioned stream.
func SaveStream(ctx context.Context, stream *models.Stream) error {
	stream.CreatedAt = time.Now().UTC()
	_, err := GetCollection("streams").InsertOne(ctx, stream)
	return err
}

// ListStreams returns streams with the given status ("" means any), newest
// first.
func ListStreams(ctx context.Context, status string) ([]models.Stream, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := GetCollection("streams").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var streams []models.Stream
	if err := cursor.All(ctx, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// UpsertTelegramSubscription creates or updates the subscription for a
// wallet.
func UpsertTelegramSubscription(ctx context.Context, sub *models.TelegramSubscription) error {
	now := time.Now().UTC()
	sub.UpdatedAt = now
	filter := bson.M{"wallet_address": sub.WalletAddress}
	update := bson.M{
		"$set": bson.M{
			"chat_id":       sub.ChatID,
			"subscribed":    sub.Subscribed,
			"notifications": sub.Notifications,
			"updated_at":    sub.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	_, err := GetCollection("telegram_subscriptions").UpdateOne(ctx, filter, update, opts)
	return err
}

// GetTelegramSubscription returns the subscription for a wallet, or
// mongo.ErrNoDocuments.
func GetTelegramSubscription(ctx context.Context, wallet string) (*models.TelegramSubscription, error) {
	var sub models.TelegramSubscription
	err := GetCollection("telegram_subscriptions").FindOne(ctx, bson.M{"wallet_address": wallet}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IsNotFound reports whether a lookup failed because the document is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// SaveAIContent stores a generation result.
func SaveAIContent(ctx context.Context, content *models.AIContent) error {
	_, err := GetCollection("ai_content").InsertOne(ctx, content)
	return err
}

// GetAIContentBySession returns the generation history for a session in
// creation order.
func GetAIContentBySession(ctx context.Context, sessionID string) ([]models.AIContent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(100)
	cursor, err := GetCollection("ai_content").Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.AIContent
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountAIContent returns the total number of stored generations.
func CountAIContent(ctx context.Context) (int64, error) {
	return GetCollection("ai_content").CountDocuments(ctx, bson.M{})
}
