package story

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu       sync.Mutex
	chapters map[string]*models.Chapter
	order    []string
	progress map[string]*models.StoryProgress
	records  map[string]*models.ChoiceRecord
	votes    []*models.Vote

	// signaled when SetChoiceConsequence runs, for enrichment tests
	enriched chan string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		chapters: map[string]*models.Chapter{},
		progress: map[string]*models.StoryProgress{},
		records:  map[string]*models.ChoiceRecord{},
		enriched: make(chan string, 1),
	}
}

func (s *fakeStore) addChapter(ch *models.Chapter) {
	s.chapters[ch.ID] = ch
	s.order = append(s.order, ch.ID)
}

func (s *fakeStore) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
	}
	copied := *ch
	return &copied, nil
}

func (s *fakeStore) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Chapter, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.chapters[id])
	}
	return out, nil
}

func (s *fakeStore) GetProgress(ctx context.Context, wallet string) (*models.StoryProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[wallet]
	if !ok {
		return nil, fmt.Errorf("progress for %s: %w", wallet, ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (s *fakeStore) InitProgress(ctx context.Context, p *models.StoryProgress) (*models.StoryProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.progress[p.WalletAddress]; ok {
		copied := *existing
		return &copied, nil
	}
	copied := *p
	s.progress[p.WalletAddress] = &copied
	result := copied
	return &result, nil
}

func (s *fakeStore) UpdateProgress(ctx context.Context, p *models.StoryProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.progress[p.WalletAddress] = &copied
	return nil
}

func (s *fakeStore) AppendChoiceRecord(ctx context.Context, rec *models.ChoiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *rec
	s.records[rec.ID] = &copied
	return nil
}

func (s *fakeStore) SetChoiceConsequence(ctx context.Context, recordID, consequence string) error {
	s.mu.Lock()
	if rec, ok := s.records[recordID]; ok {
		rec.Consequence = consequence
	}
	s.mu.Unlock()
	select {
	case s.enriched <- recordID:
	default:
	}
	return nil
}

func (s *fakeStore) GetVote(ctx context.Context, wallet, voteType string) (*models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.votes {
		if v.WalletAddress == wallet && v.VoteType == voteType {
			copied := *v
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("vote %s/%s: %w", wallet, voteType, ErrNotFound)
}

func (s *fakeStore) UpsertVote(ctx context.Context, vote *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.votes {
		if v.WalletAddress == vote.WalletAddress && v.VoteType == vote.VoteType {
			v.VoteOption = vote.VoteOption
			v.UpdatedAt = vote.UpdatedAt
			return nil
		}
	}
	copied := *vote
	s.votes = append(s.votes, &copied)
	return nil
}

func (s *fakeStore) ListVotes(ctx context.Context, voteType string) ([]models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Vote
	for _, v := range s.votes {
		if v.VoteType == voteType {
			out = append(out, *v)
		}
	}
	return out, nil
}

func basicTier(ctx context.Context, wallet string) (Tier, error) {
	return TierBasic, nil
}

func noneTier(ctx context.Context, wallet string) (Tier, error) {
	return TierNone, nil
}

func testChapters() []*models.Chapter {
	return []*models.Chapter{
		{
			ID:            "chapter_1",
			Title:         "Die Nachricht",
			ChapterNumber: 1,
			Choices: []models.Choice{
				{Text: "fight", ReputationChange: 5, NextChapter: "chapter_2", Consequence: "done"},
				{Text: "flee", ReputationChange: -2, Consequence: "done"},
			},
		},
		{
			ID:            "chapter_2",
			Title:         "Radewiger Kirche",
			ChapterNumber: 2,
			NextChapters:  []string{"chapter_3"},
			Choices: []models.Choice{
				{Text: "search", ReputationChange: 1, Consequence: "done"},
			},
			UnlockRequirements: models.UnlockRequirements{CompletedChapters: []string{"chapter_1"}},
		},
		{
			ID:            "chapter_3",
			Title:         "Das Versteck",
			ChapterNumber: 3,
			NFTRequired:   true,
			UnlockRequirements: models.UnlockRequirements{
				CompletedChapters: []string{"chapter_1", "chapter_2"},
			},
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	for _, ch := range testChapters() {
		store.addChapter(ch)
	}
	return NewEngine(store, basicTier, opts...), store
}

func TestInitializeIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.Initialize(ctx, "0xabc")
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if first.CurrentChapter != FirstChapterID {
		t.Errorf("CurrentChapter = %q, want %q", first.CurrentChapter, FirstChapterID)
	}
	if first.StoryPath != DefaultStoryPath {
		t.Errorf("StoryPath = %q, want %q", first.StoryPath, DefaultStoryPath)
	}
	if first.ReputationScore != 0 {
		t.Errorf("ReputationScore = %d, want 0", first.ReputationScore)
	}

	// Mutate via a choice, then re-initialize: nothing may reset.
	if _, err := engine.ApplyChoice(ctx, "0xabc", "chapter_1", 0); err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	second, err := engine.Initialize(ctx, "0xabc")
	if err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
	if second.ReputationScore != 5 {
		t.Errorf("ReputationScore after re-init = %d, want 5", second.ReputationScore)
	}
	if !reflect.DeepEqual(second.CompletedChapters, []string{"chapter_1"}) {
		t.Errorf("CompletedChapters after re-init = %v, want [chapter_1]", second.CompletedChapters)
	}
}

func TestListChaptersSorted(t *testing.T) {
	store := newFakeStore()
	// Inserted out of order; list must sort by chapter_number.
	store.addChapter(&models.Chapter{ID: "c3", ChapterNumber: 3})
	store.addChapter(&models.Chapter{ID: "c1", ChapterNumber: 1, Content: "secret", Choices: []models.Choice{{Text: "x"}}})
	store.addChapter(&models.Chapter{ID: "c2", ChapterNumber: 2})
	engine := NewEngine(store, basicTier)

	summaries, err := engine.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("ListChapters() error = %v", err)
	}
	var ids []string
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c1", "c2", "c3"}) {
		t.Errorf("chapter order = %v, want [c1 c2 c3]", ids)
	}
}

func TestGetChapterAccess(t *testing.T) {
	tests := []struct {
		name      string
		chapterID string
		gated     bool
		completed []string
		wantErr   error
	}{
		{
			name:      "first chapter always open",
			chapterID: "chapter_1",
		},
		{
			name:      "missing chapter",
			chapterID: "chapter_99",
			wantErr:   ErrNotFound,
		},
		{
			name:      "prerequisites incomplete",
			chapterID: "chapter_2",
			wantErr:   ErrNotUnlocked,
		},
		{
			name:      "prerequisites complete",
			chapterID: "chapter_2",
			completed: []string{"chapter_1"},
		},
		{
			name:      "nft gate blocks without access",
			chapterID: "chapter_3",
			completed: []string{"chapter_1", "chapter_2"},
			wantErr:   ErrAccessDenied,
		},
		{
			name:      "nft gate passes with access",
			chapterID: "chapter_3",
			gated:     true,
			completed: []string{"chapter_1", "chapter_2"},
		},
		{
			name:      "partial prerequisites stay locked",
			chapterID: "chapter_3",
			gated:     true,
			completed: []string{"chapter_1"},
			wantErr:   ErrNotUnlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := newTestEngine(t)
			ctx := context.Background()
			wallet := "0xwallet"
			if len(tt.completed) > 0 {
				store.progress[wallet] = &models.StoryProgress{
					WalletAddress:     wallet,
					CurrentChapter:    "chapter_2",
					CompletedChapters: tt.completed,
				}
			}

			_, err := engine.GetChapter(ctx, tt.chapterID, wallet, tt.gated)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("GetChapter() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetChapter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetChapterLazyInit(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.GetChapter(ctx, "chapter_1", "0xnew", false); err != nil {
		t.Fatalf("GetChapter() error = %v", err)
	}
	if _, ok := store.progress["0xnew"]; !ok {
		t.Error("GetChapter() did not initialize progress for a new wallet")
	}
}

func TestGetChapterCurrentChapterAccessible(t *testing.T) {
	// current_chapter is always readable even when its prerequisites are
	// not all in the completed set.
	engine, store := newTestEngine(t)
	ctx := context.Background()
	store.progress["0xw"] = &models.StoryProgress{
		WalletAddress:  "0xw",
		CurrentChapter: "chapter_2",
	}

	if _, err := engine.GetChapter(ctx, "chapter_2", "0xw", false); err != nil {
		t.Fatalf("GetChapter() error = %v", err)
	}
}

func TestApplyChoice(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	wallet := "0xplayer"

	if _, err := engine.Initialize(ctx, wallet); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	result, err := engine.ApplyChoice(ctx, wallet, "chapter_1", 0)
	if err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	if result.NextChapter != "chapter_2" {
		t.Errorf("NextChapter = %q, want chapter_2", result.NextChapter)
	}
	if result.ReputationChange != 5 {
		t.Errorf("ReputationChange = %d, want 5", result.ReputationChange)
	}
	if result.Record.Text != "fight" {
		t.Errorf("Record.Text = %q, want fight", result.Record.Text)
	}

	progress := store.progress[wallet]
	if !reflect.DeepEqual(progress.CompletedChapters, []string{"chapter_1"}) {
		t.Errorf("CompletedChapters = %v, want [chapter_1]", progress.CompletedChapters)
	}
	if progress.ReputationScore != 5 {
		t.Errorf("ReputationScore = %d, want 5", progress.ReputationScore)
	}
	if progress.CurrentChapter != "chapter_2" {
		t.Errorf("CurrentChapter = %q, want chapter_2", progress.CurrentChapter)
	}
	if len(progress.ChoicesMade) != 1 || progress.ChoicesMade[0].ChoiceIndex != 0 {
		t.Errorf("ChoicesMade = %v, want one entry with index 0", progress.ChoicesMade)
	}
}

func TestApplyChoiceErrors(t *testing.T) {
	tests := []struct {
		name        string
		wallet      string
		initialized bool
		chapterID   string
		choiceIndex int
		wantErr     error
	}{
		{
			name:        "missing chapter",
			wallet:      "0xa",
			initialized: true,
			chapterID:   "chapter_99",
			choiceIndex: 0,
			wantErr:     ErrNotFound,
		},
		{
			name:        "index out of bounds",
			wallet:      "0xa",
			initialized: true,
			chapterID:   "chapter_1",
			choiceIndex: 5,
			wantErr:     ErrInvalidChoice,
		},
		{
			name:        "negative index",
			wallet:      "0xa",
			initialized: true,
			chapterID:   "chapter_1",
			choiceIndex: -1,
			wantErr:     ErrInvalidChoice,
		},
		{
			name:        "no prior progress",
			wallet:      "0xnobody",
			chapterID:   "chapter_1",
			choiceIndex: 0,
			wantErr:     ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := newTestEngine(t)
			ctx := context.Background()
			if tt.initialized {
				if _, err := engine.Initialize(ctx, tt.wallet); err != nil {
					t.Fatalf("Initialize() error = %v", err)
				}
			}

			_, err := engine.ApplyChoice(ctx, tt.wallet, tt.chapterID, tt.choiceIndex)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ApplyChoice() error = %v, want %v", err, tt.wantErr)
			}
			// A failed application must not leave an audit record behind.
			if len(store.records) != 0 {
				t.Errorf("failed ApplyChoice left %d audit records", len(store.records))
			}
		})
	}
}

func TestApplyChoiceReputationAccumulates(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	wallet := "0xsum"

	if _, err := engine.Initialize(ctx, wallet); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// chapter_1 choice 0 (+5), then flee on the same chapter (-2), then
	// chapter_2 (+1). Score must be the running sum; completed set must
	// only grow and stay deduplicated.
	steps := []struct {
		chapter string
		index   int
	}{
		{"chapter_1", 0},
		{"chapter_1", 1},
		{"chapter_2", 0},
	}
	for _, step := range steps {
		if _, err := engine.ApplyChoice(ctx, wallet, step.chapter, step.index); err != nil {
			t.Fatalf("ApplyChoice(%s, %d) error = %v", step.chapter, step.index, err)
		}
	}

	progress := store.progress[wallet]
	if progress.ReputationScore != 4 {
		t.Errorf("ReputationScore = %d, want 4", progress.ReputationScore)
	}
	if !reflect.DeepEqual(progress.CompletedChapters, []string{"chapter_1", "chapter_2"}) {
		t.Errorf("CompletedChapters = %v, want [chapter_1 chapter_2]", progress.CompletedChapters)
	}
	if len(progress.ChoicesMade) != 3 {
		t.Errorf("len(ChoicesMade) = %d, want 3", len(progress.ChoicesMade))
	}
}

func TestApplyChoiceNextChapterFallback(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	// chapter_2's only choice has no next_chapter override; the chapter's
	// next_chapters[0] applies.
	if _, err := engine.Initialize(ctx, "0xf"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	result, err := engine.ApplyChoice(ctx, "0xf", "chapter_2", 0)
	if err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	if result.NextChapter != "chapter_3" {
		t.Errorf("NextChapter = %q, want chapter_3", result.NextChapter)
	}

	// chapter_1 flee: no override, no chapter fallback. The terminal
	// sentinel is the empty string.
	if _, err := engine.Initialize(ctx, "0xg"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	result, err = engine.ApplyChoice(ctx, "0xg", "chapter_1", 1)
	if err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	if result.NextChapter != "" {
		t.Errorf("NextChapter = %q, want empty terminal sentinel", result.NextChapter)
	}
	if store.progress["0xg"].CurrentChapter != "" {
		t.Errorf("CurrentChapter = %q, want empty", store.progress["0xg"].CurrentChapter)
	}
}

func TestApplyChoiceStoryPath(t *testing.T) {
	store := newFakeStore()
	store.addChapter(&models.Chapter{
		ID:            "fork",
		ChapterNumber: 1,
		Choices: []models.Choice{
			{Text: "shadow route", StoryPath: "shadow", Consequence: "done"},
			{Text: "stay the course", Consequence: "done"},
		},
	})
	engine := NewEngine(store, basicTier, WithFirstChapter("fork"))
	ctx := context.Background()

	if _, err := engine.Initialize(ctx, "0xp"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := engine.ApplyChoice(ctx, "0xp", "fork", 1); err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	if got := store.progress["0xp"].StoryPath; got != DefaultStoryPath {
		t.Errorf("StoryPath after pathless choice = %q, want %q", got, DefaultStoryPath)
	}
	if _, err := engine.ApplyChoice(ctx, "0xp", "fork", 0); err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	if got := store.progress["0xp"].StoryPath; got != "shadow" {
		t.Errorf("StoryPath = %q, want shadow", got)
	}
}

func TestApplyChoiceEnrichment(t *testing.T) {
	store := newFakeStore()
	store.addChapter(&models.Chapter{
		ID:            "chapter_1",
		Title:         "Die Nachricht",
		ChapterNumber: 1,
		Choices: []models.Choice{
			{Text: "warten", ReputationChange: 1}, // no authored consequence
		},
	})
	gen := GeneratorFunc(func(ctx context.Context, chapterTitle, choiceText string) (string, error) {
		return "Murat zögert, doch die Jagd geht weiter.", nil
	})
	engine := NewEngine(store, basicTier, WithGenerator(gen))
	ctx := context.Background()

	if _, err := engine.Initialize(ctx, "0xe"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	result, err := engine.ApplyChoice(ctx, "0xe", "chapter_1", 0)
	if err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	// The immediate result carries the pre-enrichment consequence.
	if result.Record.Consequence != "" {
		t.Errorf("immediate Consequence = %q, want empty", result.Record.Consequence)
	}

	select {
	case id := <-store.enriched:
		store.mu.Lock()
		got := store.records[id].Consequence
		store.mu.Unlock()
		if got == "" {
			t.Error("stored record not enriched")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("enrichment never ran")
	}
}

func TestApplyChoiceEnrichmentFailureSwallowed(t *testing.T) {
	store := newFakeStore()
	store.addChapter(&models.Chapter{
		ID:            "chapter_1",
		ChapterNumber: 1,
		Choices:       []models.Choice{{Text: "warten"}},
	})
	gen := GeneratorFunc(func(ctx context.Context, chapterTitle, choiceText string) (string, error) {
		return "", errors.New("model overloaded")
	})
	engine := NewEngine(store, basicTier, WithGenerator(gen))
	ctx := context.Background()

	if _, err := engine.Initialize(ctx, "0xe"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := engine.ApplyChoice(ctx, "0xe", "chapter_1", 0); err != nil {
		t.Errorf("ApplyChoice() error = %v, generator failure must not propagate", err)
	}
}

type recordingNotifier struct {
	ch chan string
}

func (n *recordingNotifier) ChapterCompleted(wallet, chapterID, chapterTitle string) {
	n.ch <- chapterID
}

func TestApplyChoiceNotifies(t *testing.T) {
	notifier := &recordingNotifier{ch: make(chan string, 1)}
	engine, _ := newTestEngine(t, WithNotifier(notifier))
	ctx := context.Background()

	if _, err := engine.Initialize(ctx, "0xn"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := engine.ApplyChoice(ctx, "0xn", "chapter_1", 0); err != nil {
		t.Fatalf("ApplyChoice() error = %v", err)
	}
	select {
	case id := <-notifier.ch:
		if id != "chapter_1" {
			t.Errorf("notified chapter = %q, want chapter_1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("chapter completion never notified")
	}
}

func TestCastVoteFreezesWeight(t *testing.T) {
	store := newFakeStore()
	calls := 0
	resolver := func(ctx context.Context, wallet string) (Tier, error) {
		calls++
		if calls == 1 {
			return TierPremium, nil
		}
		return TierNone, nil
	}
	engine := NewEngine(store, resolver)
	ctx := context.Background()

	first, err := engine.CastVote(ctx, "0xv", "next_chapter", "option_a")
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if first.VoteWeight != 2 {
		t.Errorf("first VoteWeight = %d, want 2", first.VoteWeight)
	}

	second, err := engine.CastVote(ctx, "0xv", "next_chapter", "option_b")
	if err != nil {
		t.Fatalf("CastVote() second error = %v", err)
	}
	if second.VoteWeight != 2 {
		t.Errorf("re-vote VoteWeight = %d, want frozen 2", second.VoteWeight)
	}
	if second.VoteOption != "option_b" {
		t.Errorf("VoteOption = %q, want option_b", second.VoteOption)
	}

	votes, _ := store.ListVotes(ctx, "next_chapter")
	if len(votes) != 1 {
		t.Fatalf("stored votes = %d, want 1", len(votes))
	}
	if votes[0].VoteOption != "option_b" || votes[0].VoteWeight != 2 {
		t.Errorf("stored vote = %+v, want option_b with weight 2", votes[0])
	}
}

func TestVoteWeightByTier(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{TierNone, 1},
		{Tier(""), 1},
		{TierBasic, 2},
		{TierPremium, 2},
		{TierVIP, 2},
	}
	for _, tt := range tests {
		if got := VoteWeight(tt.tier); got != tt.want {
			t.Errorf("VoteWeight(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestTallyVotes(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, noneTier)
	ctx := context.Background()

	// Weights 1, 1, 2 for options A, A, B: both options total 2, tie
	// broken by first appearance. Total 3 votes, weight 4.
	seed := []*models.Vote{
		{WalletAddress: "0x1", VoteType: "next_chapter", VoteOption: "A", VoteWeight: 1},
		{WalletAddress: "0x2", VoteType: "next_chapter", VoteOption: "A", VoteWeight: 1},
		{WalletAddress: "0x3", VoteType: "next_chapter", VoteOption: "B", VoteWeight: 2},
		{WalletAddress: "0x1", VoteType: "other", VoteOption: "C", VoteWeight: 1},
	}
	for _, v := range seed {
		if err := store.UpsertVote(ctx, v); err != nil {
			t.Fatalf("UpsertVote() error = %v", err)
		}
	}

	tally, err := engine.TallyVotes(ctx, "next_chapter")
	if err != nil {
		t.Fatalf("TallyVotes() error = %v", err)
	}
	want := []OptionTally{
		{Option: "A", Weight: 2, Votes: 2},
		{Option: "B", Weight: 2, Votes: 1},
	}
	if !reflect.DeepEqual(tally.Results, want) {
		t.Errorf("Results = %v, want %v", tally.Results, want)
	}
	if tally.TotalVotes != 3 {
		t.Errorf("TotalVotes = %d, want 3", tally.TotalVotes)
	}
	if tally.TotalWeight != 4 {
		t.Errorf("TotalWeight = %d, want 4", tally.TotalWeight)
	}
}

func TestTallyVotesRanked(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, noneTier)
	ctx := context.Background()

	seed := []*models.Vote{
		{WalletAddress: "0x1", VoteType: "t", VoteOption: "low", VoteWeight: 1},
		{WalletAddress: "0x2", VoteType: "t", VoteOption: "high", VoteWeight: 2},
		{WalletAddress: "0x3", VoteType: "t", VoteOption: "high", VoteWeight: 2},
	}
	for _, v := range seed {
		if err := store.UpsertVote(ctx, v); err != nil {
			t.Fatalf("UpsertVote() error = %v", err)
		}
	}

	tally, err := engine.TallyVotes(ctx, "t")
	if err != nil {
		t.Fatalf("TallyVotes() error = %v", err)
	}
	if tally.Results[0].Option != "high" {
		t.Errorf("top option = %q, want high", tally.Results[0].Option)
	}
}

func TestTallyVotesEmpty(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, noneTier)

	tally, err := engine.TallyVotes(context.Background(), "unused")
	if err != nil {
		t.Fatalf("TallyVotes() error = %v", err)
	}
	if tally.TotalVotes != 0 || tally.TotalWeight != 0 || len(tally.Results) != 0 {
		t.Errorf("empty tally = %+v, want zeroes", tally)
	}
}
