package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
	"github.com/KryptoMuratLive/kryptomuratv4/story"
)

// StoryStore is the MongoDB implementation of story.Store. Collections:
// chapters, story_progress, story_choices, story_votes.
type StoryStore struct{}

// NewStoryStore returns a store backed by the package-level database.
func NewStoryStore() *StoryStore {
	return &StoryStore{}
}

func storeErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, story.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, story.ErrStorage, err)
}

func (s *StoryStore) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	err := GetCollection("chapters").FindOne(ctx, bson.M{"id": id}).Decode(&chapter)
	if err != nil {
		return nil, storeErr("get chapter "+id, err)
	}
	return &chapter, nil
}

func (s *StoryStore) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	opts := options.Find().SetSort(bson.D{{Key: "chapter_number", Value: 1}})
	cursor, err := GetCollection("chapters").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr("list chapters", err)
	}
	defer cursor.Close(ctx)

	var chapters []models.Chapter
	if err := cursor.All(ctx, &chapters); err != nil {
		return nil, storeErr("decode chapters", err)
	}
	return chapters, nil
}

// InsertChapter publishes a new chapter. Chapters are read-only afterwards.
func (s *StoryStore) InsertChapter(ctx context.Context, chapter *models.Chapter) error {
	chapter.CreatedAt = time.Now().UTC()
	if _, err := GetCollection("chapters").InsertOne(ctx, chapter); err != nil {
		return storeErr("insert chapter "+chapter.ID, err)
	}
	return nil
}

func (s *StoryStore) GetProgress(ctx context.Context, wallet string) (*models.StoryProgress, error) {
	var progress models.StoryProgress
	err := GetCollection("story_progress").FindOne(ctx, bson.M{"wallet_address": wallet}).Decode(&progress)
	if err != nil {
		return nil, storeErr("get progress for "+wallet, err)
	}
	return &progress, nil
}

// InitProgress is an atomic insert-if-absent keyed on wallet_address. Two
// concurrent first calls for the same wallet still produce exactly one
// document.
func (s *StoryStore) InitProgress(ctx context.Context, p *models.StoryProgress) (*models.StoryProgress, error) {
	filter := bson.M{"wallet_address": p.WalletAddress}
	update := bson.M{"$setOnInsert": p}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.StoryProgress
	err := GetCollection("story_progress").FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		return nil, storeErr("init progress for "+p.WalletAddress, err)
	}
	return &stored, nil
}

func (s *StoryStore) UpdateProgress(ctx context.Context, p *models.StoryProgress) error {
	filter := bson.M{"wallet_address": p.WalletAddress}
	update := bson.M{"$set": bson.M{
		"current_chapter":    p.CurrentChapter,
		"completed_chapters": p.CompletedChapters,
		"choices_made":       p.ChoicesMade,
		"reputation_score":   p.ReputationScore,
		"items_collected":    p.ItemsCollected,
		"story_path":         p.StoryPath,
		"last_played":        p.LastPlayed,
	}}
	result, err := GetCollection("story_progress").UpdateOne(ctx, filter, update)
	if err != nil {
		return storeErr("update progress for "+p.WalletAddress, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update progress for %s: %w", p.WalletAddress, story.ErrNotFound)
	}
	return nil
}

// AppendChoiceRecord writes the audit log entry. Retries transient insert
// failures with linear backoff.
func (s *StoryStore) AppendChoiceRecord(ctx context.Context, rec *models.ChoiceRecord) error {
	collection := GetCollection("story_choices")

	var lastErr error
	for i := 0; i < 3; i++ {
		_, err := collection.InsertOne(ctx, rec)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(time.Millisecond * 100 * time.Duration(i+1))
	}
	return storeErr("append choice record", lastErr)
}

func (s *StoryStore) SetChoiceConsequence(ctx context.Context, recordID, consequence string) error {
	filter := bson.M{"id": recordID}
	update := bson.M{"$set": bson.M{"consequence": consequence}}
	if _, err := GetCollection("story_choices").UpdateOne(ctx, filter, update); err != nil {
		return storeErr("set consequence on "+recordID, err)
	}
	return nil
}

func (s *StoryStore) GetVote(ctx context.Context, wallet, voteType string) (*models.Vote, error) {
	var vote models.Vote
	filter := bson.M{"wallet_address": wallet, "vote_type": voteType}
	err := GetCollection("story_votes").FindOne(ctx, filter).Decode(&vote)
	if err != nil {
		return nil, storeErr("get vote "+wallet+"/"+voteType, err)
	}
	return &vote, nil
}

// UpsertVote replaces the option for the (wallet, vote_type) key; weight and
// created_at are only written on first insert, so the weight stays frozen.
func (s *StoryStore) UpsertVote(ctx context.Context, v *models.Vote) error {
	filter := bson.M{"wallet_address": v.WalletAddress, "vote_type": v.VoteType}
	update := bson.M{
		"$set": bson.M{
			"vote_option": v.VoteOption,
			"updated_at":  v.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"vote_weight": v.VoteWeight,
			"created_at":  v.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := GetCollection("story_votes").UpdateOne(ctx, filter, update, opts); err != nil {
		return storeErr("upsert vote "+v.WalletAddress+"/"+v.VoteType, err)
	}
	return nil
}

func (s *StoryStore) ListVotes(ctx context.Context, voteType string) ([]models.Vote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := GetCollection("story_votes").Find(ctx, bson.M{"vote_type": voteType}, opts)
	if err != nil {
		return nil, storeErr("list votes "+voteType, err)
	}
	defer cursor.Close(ctx)

	var votes []models.Vote
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, storeErr("decode votes", err)
	}
	return votes, nil
}
