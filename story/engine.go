package story

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
)

// Error kinds surfaced by the engine. Handlers map these to HTTP status
// codes; they are never collapsed into a generic failure.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidChoice = errors.New("invalid choice index")
	ErrAccessDenied  = errors.New("nft access required")
	ErrNotUnlocked   = errors.New("chapter not unlocked")
	ErrStorage       = errors.New("storage unavailable")
)

// FirstChapterID is where every new player starts.
const FirstChapterID = "chapter_1"

// DefaultStoryPath is the path assigned to freshly initialized progress.
const DefaultStoryPath = "main"

// Tier is the coarse access level resolved for a wallet.
type Tier string

const (
	TierNone    Tier = "none"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
)

// VoteWeight maps an access tier to a vote multiplier. The weight is frozen
// into the vote document at first cast.
func VoteWeight(tier Tier) int {
	if tier == TierNone || tier == "" {
		return 1
	}
	return 2
}

// Store is the persistence surface the engine needs. Lookups return
// ErrNotFound when the record is absent and wrap other failures in
// ErrStorage.
type Store interface {
	GetChapter(ctx context.Context, id string) (*models.Chapter, error)
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	GetProgress(ctx context.Context, wallet string) (*models.StoryProgress, error)
	// InitProgress atomically inserts the given progress if none exists for
	// its wallet and returns the stored document either way.
	InitProgress(ctx context.Context, p *models.StoryProgress) (*models.StoryProgress, error)
	UpdateProgress(ctx context.Context, p *models.StoryProgress) error
	AppendChoiceRecord(ctx context.Context, rec *models.ChoiceRecord) error
	SetChoiceConsequence(ctx context.Context, recordID, consequence string) error
	GetVote(ctx context.Context, wallet, voteType string) (*models.Vote, error)
	// UpsertVote overwrites vote_option for the (wallet, vote_type) key.
	// vote_weight and created_at are written only on first insert.
	UpsertVote(ctx context.Context, v *models.Vote) error
	ListVotes(ctx context.Context, voteType string) ([]models.Vote, error)
}

// Generator produces flavor text for a choice consequence. Failures are
// logged and swallowed; enrichment never fails a choice application.
type Generator interface {
	GenerateConsequence(ctx context.Context, chapterTitle, choiceText string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, chapterTitle, choiceText string) (string, error)

func (f GeneratorFunc) GenerateConsequence(ctx context.Context, chapterTitle, choiceText string) (string, error) {
	return f(ctx, chapterTitle, choiceText)
}

// TierResolver returns the access tier for a wallet.
type TierResolver func(ctx context.Context, wallet string) (Tier, error)

// Notifier is told about story milestones. Delivery is best-effort and
// outside the engine's result.
type Notifier interface {
	ChapterCompleted(wallet, chapterID, chapterTitle string)
}

// Engine owns chapter access checks, choice application and community
// voting. All collaborators are injected; the generator and notifier are
// optional.
type Engine struct {
	store         Store
	gen           Generator
	notify        Notifier
	resolveTier   TierResolver
	firstChapter  string
	enrichTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator sets the consequence text generator.
func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithNotifier sets the milestone notification hook.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notify = n }
}

// WithFirstChapter overrides the chapter new players start at.
func WithFirstChapter(id string) Option {
	return func(e *Engine) { e.firstChapter = id }
}

// WithEnrichTimeout bounds the async consequence generation. On expiry the
// consequence stays as authored.
func WithEnrichTimeout(d time.Duration) Option {
	return func(e *Engine) { e.enrichTimeout = d }
}

// NewEngine builds an engine over the given store and tier resolver.
func NewEngine(store Store, resolveTier TierResolver, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		resolveTier:   resolveTier,
		firstChapter:  FirstChapterID,
		enrichTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize returns the wallet's progress, creating it at the first chapter
// if none exists. Idempotent: a second call returns the stored progress
// unchanged.
func (e *Engine) Initialize(ctx context.Context, wallet string) (*models.StoryProgress, error) {
	now := time.Now().UTC()
	fresh := &models.StoryProgress{
		WalletAddress:     wallet,
		CurrentChapter:    e.firstChapter,
		CompletedChapters: []string{},
		ChoicesMade:       []models.ChoiceMade{},
		ItemsCollected:    []string{},
		StoryPath:         DefaultStoryPath,
		LastPlayed:        now,
		CreatedAt:         now,
	}
	return e.store.InitProgress(ctx, fresh)
}

// Progress returns the wallet's stored progress without creating one.
func (e *Engine) Progress(ctx context.Context, wallet string) (*models.StoryProgress, error) {
	return e.store.GetProgress(ctx, wallet)
}

// ChapterSummary is the public projection of a chapter: no body, no choices.
type ChapterSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ChapterNumber int    `json:"chapter_number"`
	NFTRequired   bool   `json:"nft_required"`
	ImageURL      string `json:"image_url,omitempty"`
}

// ListChapters returns all chapters as public summaries, ascending by
// chapter number. Ties keep storage order.
func (e *Engine) ListChapters(ctx context.Context) ([]ChapterSummary, error) {
	chapters, err := e.store.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].ChapterNumber < chapters[j].ChapterNumber
	})
	summaries := make([]ChapterSummary, 0, len(chapters))
	for _, ch := range chapters {
		summaries = append(summaries, ChapterSummary{
			ID:            ch.ID,
			Title:         ch.Title,
			Description:   ch.Description,
			ChapterNumber: ch.ChapterNumber,
			NFTRequired:   ch.NFTRequired,
			ImageURL:      ch.ImageURL,
		})
	}
	return summaries, nil
}

// GetChapter returns the full chapter if the wallet may read it. Gated
// chapters require hasGatedAccess; locked chapters require all unlock
// prerequisites in the wallet's completed set. Progress is lazily
// initialized on first access.
func (e *Engine) GetChapter(ctx context.Context, chapterID, wallet string, hasGatedAccess bool) (*models.Chapter, error) {
	chapter, err := e.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.NFTRequired && !hasGatedAccess {
		return nil, fmt.Errorf("chapter %s: %w", chapterID, ErrAccessDenied)
	}
	progress, err := e.Initialize(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if !chapterUnlocked(chapter, progress) {
		return nil, fmt.Errorf("chapter %s: %w", chapterID, ErrNotUnlocked)
	}
	return chapter, nil
}

func chapterUnlocked(chapter *models.Chapter, progress *models.StoryProgress) bool {
	if containsString(progress.CompletedChapters, chapter.ID) {
		return true
	}
	if progress.CurrentChapter == chapter.ID {
		return true
	}
	required := chapter.UnlockRequirements.CompletedChapters
	if len(required) == 0 {
		return true
	}
	for _, id := range required {
		if !containsString(progress.CompletedChapters, id) {
			return false
		}
	}
	return true
}

// ChoiceResult is what ApplyChoice returns to the caller. The record may be
// enriched with generated consequence text after the call returns.
type ChoiceResult struct {
	Record             *models.ChoiceRecord `json:"choice"`
	NextChapter        string               `json:"next_chapter"`
	ReputationChange   int                  `json:"reputation_change"`
	NewReputationScore int                  `json:"new_reputation_score"`
}

// ApplyChoice applies choice choiceIndex of the given chapter to the
// wallet's progress. The wallet must have been initialized before; a missing
// progress fails with ErrNotFound rather than leaving an orphaned audit
// record.
func (e *Engine) ApplyChoice(ctx context.Context, wallet, chapterID string, choiceIndex int) (*ChoiceResult, error) {
	chapter, err := e.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if choiceIndex < 0 || choiceIndex >= len(chapter.Choices) {
		return nil, fmt.Errorf("chapter %s has %d choices, got index %d: %w",
			chapterID, len(chapter.Choices), choiceIndex, ErrInvalidChoice)
	}
	progress, err := e.store.GetProgress(ctx, wallet)
	if err != nil {
		return nil, err
	}

	choice := chapter.Choices[choiceIndex]
	now := time.Now().UTC()
	record := &models.ChoiceRecord{
		ID:               uuid.NewString(),
		WalletAddress:    wallet,
		ChapterID:        chapterID,
		ChoiceIndex:      choiceIndex,
		Text:             choice.Text,
		Consequence:      choice.Consequence,
		ReputationChange: choice.ReputationChange,
		Timestamp:        now,
	}
	if err := e.store.AppendChoiceRecord(ctx, record); err != nil {
		return nil, err
	}

	if !containsString(progress.CompletedChapters, chapterID) {
		progress.CompletedChapters = append(progress.CompletedChapters, chapterID)
	}
	progress.ReputationScore += choice.ReputationChange
	progress.ChoicesMade = append(progress.ChoicesMade, models.ChoiceMade{
		ChapterID:   chapterID,
		ChoiceIndex: choiceIndex,
		Text:        choice.Text,
		Timestamp:   now,
	})
	next := choice.NextChapter
	if next == "" && len(chapter.NextChapters) > 0 {
		next = chapter.NextChapters[0]
	}
	progress.CurrentChapter = next
	if choice.StoryPath != "" {
		progress.StoryPath = choice.StoryPath
	}
	progress.LastPlayed = now
	if err := e.store.UpdateProgress(ctx, progress); err != nil {
		return nil, err
	}

	if choice.Consequence == "" && e.gen != nil {
		go e.enrichConsequence(record.ID, chapter.Title, choice.Text)
	}
	if e.notify != nil {
		go e.notify.ChapterCompleted(wallet, chapterID, chapter.Title)
	}

	return &ChoiceResult{
		Record:             record,
		NextChapter:        next,
		ReputationChange:   choice.ReputationChange,
		NewReputationScore: progress.ReputationScore,
	}, nil
}

// enrichConsequence fills in AI flavor text for an already stored choice
// record. Runs detached from the request; any failure is logged and the
// authored consequence stands.
func (e *Engine) enrichConsequence(recordID, chapterTitle, choiceText string) {
	ctx, cancel := context.WithTimeout(context.Background(), e.enrichTimeout)
	defer cancel()

	text, err := e.gen.GenerateConsequence(ctx, chapterTitle, choiceText)
	if err != nil {
		log.Printf("[ENRICH_SKIP] consequence generation for record %s failed: %v", recordID, err)
		return
	}
	if text == "" {
		return
	}
	if err := e.store.SetChoiceConsequence(ctx, recordID, text); err != nil {
		log.Printf("[ENRICH_SKIP] storing consequence for record %s failed: %v", recordID, err)
	}
}

// CastVote records the wallet's vote for voteType. A repeat vote replaces
// the option; the weight stays frozen at the value computed on first cast.
func (e *Engine) CastVote(ctx context.Context, wallet, voteType, voteOption string) (*models.Vote, error) {
	now := time.Now().UTC()
	vote := &models.Vote{
		WalletAddress: wallet,
		VoteType:      voteType,
		VoteOption:    voteOption,
		VoteWeight:    1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	existing, err := e.store.GetVote(ctx, wallet, voteType)
	switch {
	case err == nil:
		vote.VoteWeight = existing.VoteWeight
		vote.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		tier, terr := e.resolveTier(ctx, wallet)
		if terr != nil {
			return nil, terr
		}
		vote.VoteWeight = VoteWeight(tier)
	default:
		return nil, err
	}

	if err := e.store.UpsertVote(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// OptionTally is one ranked entry in a vote tally.
type OptionTally struct {
	Option string `json:"option"`
	Weight int    `json:"weight"`
	Votes  int    `json:"votes"`
}

// TallyResult aggregates all votes of one type.
type TallyResult struct {
	VoteType    string        `json:"vote_type"`
	Results     []OptionTally `json:"results"`
	TotalVotes  int           `json:"total_votes"`
	TotalWeight int           `json:"total_weight"`
}

// TallyVotes sums vote weights per option and ranks options by descending
// total weight. Ties keep the order of first appearance in the scan.
func (e *Engine) TallyVotes(ctx context.Context, voteType string) (*TallyResult, error) {
	votes, err := e.store.ListVotes(ctx, voteType)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	tally := &TallyResult{VoteType: voteType, Results: []OptionTally{}}
	for _, v := range votes {
		i, ok := index[v.VoteOption]
		if !ok {
			i = len(tally.Results)
			index[v.VoteOption] = i
			tally.Results = append(tally.Results, OptionTally{Option: v.VoteOption})
		}
		tally.Results[i].Weight += v.VoteWeight
		tally.Results[i].Votes++
		tally.TotalVotes++
		tally.TotalWeight += v.VoteWeight
	}
	sort.SliceStable(tally.Results, func(i, j int) bool {
		return tally.Results[i].Weight > tally.Results[j].Weight
	})
	return tally, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
