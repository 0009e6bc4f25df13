package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vocabshare-backend-go/internal/db"
	"vocabshare-backend-go/internal/models"
)

const (
	// myVocabularyPageSize is the fixed page size of the author-filtered,
	// cursor-paginated feed.
	myVocabularyPageSize = 3
	// latestPageSize is the fixed size of the cross-author latest feed.
	latestPageSize = 5
)

// vocabularyService implements the VocabularyService interface.
type vocabularyService struct {
	vocabularyRepo db.VocabularyRepository
	userRepo       db.UserRepository
	logger         *zap.Logger
}

// NewVocabularyService creates a new VocabularyService instance.
func NewVocabularyService(vocabularyRepo db.VocabularyRepository, userRepo db.UserRepository, logger *zap.Logger) VocabularyService {
	return &vocabularyService{
		vocabularyRepo: vocabularyRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// AddVocabulary stores a new vocabulary entry authored by uid.
func (s *vocabularyService) AddVocabulary(ctx context.Context, uid string, req models.CreateVocabularyRequest) (*models.Vocabulary, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for AddVocabulary")
	}
	vocabulary := &models.Vocabulary{
		Word:     req.Word,
		Meaning:  req.Meaning,
		Example:  req.Example,
		AuthorID: uid,
	}
	if _, err := s.vocabularyRepo.Create(ctx, vocabulary); err != nil {
		return nil, fmt.Errorf("failed to add vocabulary for author '%s': %w", uid, err)
	}
	return vocabulary, nil
}

// GetMyVocabularies returns the next page of the author's entries with
// resolved authors, plus the cursor for the following page.
func (s *vocabularyService) GetMyVocabularies(ctx context.Context, authorID, cursor string) (*VocabularyPage, error) {
	if authorID == "" {
		return nil, errors.New("authorID cannot be empty for GetMyVocabularies")
	}
	page, nextCursor, err := s.vocabularyRepo.GetPage(ctx, authorID, myVocabularyPageSize, cursor)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrich(ctx, page)
	if err != nil {
		return nil, err
	}
	return &VocabularyPage{Vocabularies: enriched, NextCursor: nextCursor}, nil
}

// GetLatestVocabularies returns the newest entries across all authors. The
// cursor is discarded; this feed is not paginated.
func (s *vocabularyService) GetLatestVocabularies(ctx context.Context) ([]*models.VocabularyWithAuthor, error) {
	page, _, err := s.vocabularyRepo.GetPage(ctx, "", latestPageSize, "")
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, page)
}

// enrich resolves the author of every entry in the page. It fetches each
// distinct author exactly once, concurrently, and joins only after all
// lookups have settled. A deleted author yields a nil Author field rather
// than a failed page.
func (s *vocabularyService) enrich(ctx context.Context, vocabularies []*models.Vocabulary) ([]*models.VocabularyWithAuthor, error) {
	authorIDs := make([]string, 0, len(vocabularies))
	seen := make(map[string]struct{}, len(vocabularies))
	for _, v := range vocabularies {
		if _, ok := seen[v.AuthorID]; !ok {
			seen[v.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, v.AuthorID)
		}
	}

	var mu sync.Mutex
	authors := make(map[string]*models.User, len(authorIDs))

	g, gctx := errgroup.WithContext(ctx)
	for _, authorID := range authorIDs {
		authorID := authorID
		g.Go(func() error {
			user, err := s.userRepo.GetByID(gctx, authorID)
			if err != nil {
				if errors.Is(err, db.ErrNotFound) {
					// Author deleted after the vocabulary was created.
					return nil
				}
				return err
			}
			mu.Lock()
			authors[authorID] = user
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve vocabulary authors: %w", err)
	}

	enriched := make([]*models.VocabularyWithAuthor, len(vocabularies))
	for i, v := range vocabularies {
		enriched[i] = &models.VocabularyWithAuthor{
			Vocabulary: *v,
			Author:     authors[v.AuthorID],
		}
	}
	return enriched, nil
}

// VocabularySubscription is a push-based view over a vocabulary query. Every
// change to the queried documents re-triggers author resolution and emits a
// fresh page on Pages. Cancellation is an explicit caller action: Cancel (or
// cancelling the parent context) closes Pages after the current emission.
type VocabularySubscription struct {
	pages  chan []*models.VocabularyWithAuthor
	errs   chan error
	cancel context.CancelFunc
}

// Pages returns the channel of page snapshots. It is closed on teardown.
func (sub *VocabularySubscription) Pages() <-chan []*models.VocabularyWithAuthor {
	return sub.pages
}

// Errs returns the channel carrying a terminal listener error, if any.
func (sub *VocabularySubscription) Errs() <-chan error {
	return sub.errs
}

// Cancel tears the subscription down.
func (sub *VocabularySubscription) Cancel() {
	sub.cancel()
}

// Subscribe starts a reactive subscription over the latest-vocabularies
// query, optionally filtered by author.
func (s *vocabularyService) Subscribe(ctx context.Context, authorID string) (*VocabularySubscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	limit := latestPageSize
	if authorID != "" {
		limit = myVocabularyPageSize
	}
	rawPages, rawErrs := s.vocabularyRepo.Listen(subCtx, authorID, limit)

	sub := &VocabularySubscription{
		pages:  make(chan []*models.VocabularyWithAuthor),
		errs:   make(chan error, 1),
		cancel: cancel,
	}

	go func() {
		defer close(sub.pages)
		defer close(sub.errs)
		for {
			select {
			case raw, ok := <-rawPages:
				if !ok {
					if err, ok := <-rawErrs; ok && err != nil {
						sub.errs <- err
					}
					return
				}
				enriched, err := s.enrich(subCtx, raw)
				if err != nil {
					s.logger.Warn("skipping page after enrichment failure", zap.Error(err))
					continue
				}
				select {
				case sub.pages <- enriched:
				case <-subCtx.Done():
					return
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}
