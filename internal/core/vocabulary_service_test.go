package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/db"
	"vocabshare-backend-go/internal/models"
)

// stubVocabularyRepo serves pages from an in-memory slice kept in
// newest-first order, mirroring the Firestore query semantics.
type stubVocabularyRepo struct {
	entries []*models.Vocabulary
	listen  chan []*models.Vocabulary
}

func (r *stubVocabularyRepo) Create(_ context.Context, vocabulary *models.Vocabulary) (string, error) {
	vocabulary.VocabularyID = fmt.Sprintf("voc-%d", len(r.entries)+1)
	r.entries = append([]*models.Vocabulary{vocabulary}, r.entries...)
	return vocabulary.VocabularyID, nil
}

func (r *stubVocabularyRepo) GetPage(_ context.Context, authorID string, limit int, startAfterID string) ([]*models.Vocabulary, string, error) {
	var filtered []*models.Vocabulary
	for _, e := range r.entries {
		if authorID == "" || e.AuthorID == authorID {
			filtered = append(filtered, e)
		}
	}

	start := 0
	if startAfterID != "" {
		for i, e := range filtered {
			if e.VocabularyID == startAfterID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(filtered) {
		return nil, "", nil
	}

	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := filtered[start:end]
	return page, page[len(page)-1].VocabularyID, nil
}

func (r *stubVocabularyRepo) Listen(ctx context.Context, _ string, _ int) (<-chan []*models.Vocabulary, <-chan error) {
	errs := make(chan error)
	close(errs)
	return r.listen, errs
}

// countingUserRepo tracks GetByID calls so tests can assert exactly one
// lookup per distinct author.
type countingUserRepo struct {
	users map[string]*models.User
	gets  atomic.Int64
}

func (r *countingUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.gets.Add(1)
	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", userID, db.ErrNotFound)
	}
	return user, nil
}

func (r *countingUserRepo) Create(context.Context, *models.User) error {
	return errors.New("not implemented")
}

func (r *countingUserRepo) SetSubscription(context.Context, string, string) error {
	return errors.New("not implemented")
}
func (r *countingUserRepo) ClearSubscription(context.Context, string) error {
	return errors.New("not implemented")
}

func (r *countingUserRepo) SetBillingPeriod(context.Context, string, int64, int64) error {
	return errors.New("not implemented")
}

func (r *countingUserRepo) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

func seedVocabularies(authorCounts map[string]int) []*models.Vocabulary {
	var entries []*models.Vocabulary
	i := 0
	for author, n := range authorCounts {
		for j := 0; j < n; j++ {
			i++
			entries = append(entries, &models.Vocabulary{
				VocabularyID: fmt.Sprintf("%s-%d", author, j),
				Word:         fmt.Sprintf("word-%d", i),
				Meaning:      "meaning",
				AuthorID:     author,
				CreatedAt:    time.Unix(int64(1000000-i), 0),
			})
		}
	}
	return entries
}

func newTestVocabularyService(repo *stubVocabularyRepo, users *countingUserRepo) VocabularyService {
	return NewVocabularyService(repo, users, zap.NewNop())
}

func TestGetMyVocabulariesPaginatesWithoutDuplicatesOrOmissions(t *testing.T) {
	entries := seedVocabularies(map[string]int{"alice": 7})
	repo := &stubVocabularyRepo{entries: entries}
	users := &countingUserRepo{users: map[string]*models.User{"alice": {ID: "alice"}}}
	svc := newTestVocabularyService(repo, users)

	var collected []*models.VocabularyWithAuthor
	cursor := ""
	for {
		page, err := svc.GetMyVocabularies(context.Background(), "alice", cursor)
		require.NoError(t, err)
		if len(page.Vocabularies) == 0 {
			assert.Empty(t, page.NextCursor, "empty page must end pagination")
			break
		}
		collected = append(collected, page.Vocabularies...)
		cursor = page.NextCursor
	}

	require.Len(t, collected, 7)
	seen := make(map[string]bool)
	for i, v := range collected {
		assert.False(t, seen[v.VocabularyID], "duplicate entry %s", v.VocabularyID)
		seen[v.VocabularyID] = true
		if i > 0 {
			assert.False(t, v.CreatedAt.After(collected[i-1].CreatedAt), "entries must be newest-first")
		}
	}
}

func TestGetMyVocabulariesSinglePageScenario(t *testing.T) {
	// Three entries by the same author with page size 3: one full page,
	// cursor pointing at the third entry, then no further pages.
	entries := seedVocabularies(map[string]int{"alice": 3})
	repo := &stubVocabularyRepo{entries: entries}
	users := &countingUserRepo{users: map[string]*models.User{"alice": {ID: "alice"}}}
	svc := newTestVocabularyService(repo, users)

	page, err := svc.GetMyVocabularies(context.Background(), "alice", "")
	require.NoError(t, err)
	require.Len(t, page.Vocabularies, 3)
	assert.Equal(t, page.Vocabularies[2].VocabularyID, page.NextCursor)

	next, err := svc.GetMyVocabularies(context.Background(), "alice", page.NextCursor)
	require.NoError(t, err)
	assert.Empty(t, next.Vocabularies)
	assert.Empty(t, next.NextCursor)
}

func TestGetMyVocabulariesEmptyResult(t *testing.T) {
	repo := &stubVocabularyRepo{}
	users := &countingUserRepo{users: map[string]*models.User{}}
	svc := newTestVocabularyService(repo, users)

	page, err := svc.GetMyVocabularies(context.Background(), "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, page.Vocabularies)
	assert.Empty(t, page.NextCursor)
}

func TestEnrichmentFetchesEachDistinctAuthorOnce(t *testing.T) {
	// Five entries by two authors within one page: exactly two lookups.
	entries := seedVocabularies(map[string]int{"alice": 3, "bob": 2})
	repo := &stubVocabularyRepo{entries: entries}
	users := &countingUserRepo{users: map[string]*models.User{
		"alice": {ID: "alice"},
		"bob":   {ID: "bob"},
	}}
	svc := newTestVocabularyService(repo, users)

	result, err := svc.GetLatestVocabularies(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 5)
	assert.Equal(t, int64(2), users.gets.Load())
}

func TestEnrichmentToleratesDeletedAuthor(t *testing.T) {
	entries := seedVocabularies(map[string]int{"ghost": 2, "alice": 1})
	repo := &stubVocabularyRepo{entries: entries}
	users := &countingUserRepo{users: map[string]*models.User{"alice": {ID: "alice"}}}
	svc := newTestVocabularyService(repo, users)

	// Identical queries must keep yielding absent authors, never a failure.
	for i := 0; i < 2; i++ {
		result, err := svc.GetLatestVocabularies(context.Background())
		require.NoError(t, err)
		require.Len(t, result, 3)
		for _, v := range result {
			if v.AuthorID == "ghost" {
				assert.Nil(t, v.Author)
			} else {
				require.NotNil(t, v.Author)
				assert.Equal(t, "alice", v.Author.ID)
			}
		}
	}
}

func TestSubscribeEmitsEnrichedPagesUntilCancelled(t *testing.T) {
	listen := make(chan []*models.Vocabulary, 2)
	repo := &stubVocabularyRepo{listen: listen}
	users := &countingUserRepo{users: map[string]*models.User{"alice": {ID: "alice"}}}
	svc := newTestVocabularyService(repo, users)

	sub, err := svc.Subscribe(context.Background(), "")
	require.NoError(t, err)

	listen <- []*models.Vocabulary{{VocabularyID: "v1", AuthorID: "alice"}}

	select {
	case page := <-sub.Pages():
		require.Len(t, page, 1)
		require.NotNil(t, page[0].Author)
		assert.Equal(t, "alice", page[0].Author.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for page emission")
	}

	sub.Cancel()
	select {
	case _, ok := <-sub.Pages():
		assert.False(t, ok, "pages channel must close after Cancel")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
