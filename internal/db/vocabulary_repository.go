package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"vocabshare-backend-go/internal/models"
)

const vocabulariesCollection = "vocabularies"

// firestoreVocabularyRepository implements the VocabularyRepository
// interface using Firestore.
type firestoreVocabularyRepository struct {
	client *firestore.Client
}

// NewFirestoreVocabularyRepository creates a new instance of
// firestoreVocabularyRepository.
func NewFirestoreVocabularyRepository(client *firestore.Client) VocabularyRepository {
	return &firestoreVocabularyRepository{client: client}
}

// Create adds a new vocabulary document with an auto-generated ID. It sets
// vocabulary.VocabularyID with the new document ID before creation;
// CreatedAt is handled by the serverTimestamp tag.
func (r *firestoreVocabularyRepository) Create(ctx context.Context, vocabulary *models.Vocabulary) (string, error) {
	docRef := r.client.Collection(vocabulariesCollection).NewDoc()
	vocabulary.VocabularyID = docRef.ID

	_, err := docRef.Create(ctx, vocabulary)
	if err != nil {
		return "", fmt.Errorf("failed to create vocabulary: %w", err)
	}
	return docRef.ID, nil
}

// query builds the ordered vocabulary query shared by GetPage and Listen.
func (r *firestoreVocabularyRepository) query(authorID string, limit int) firestore.Query {
	q := r.client.Collection(vocabulariesCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	if authorID != "" {
		q = r.client.Collection(vocabulariesCollection).
			Where("authorId", "==", authorID).
			OrderBy("createdAt", firestore.Desc).
			Limit(limit)
	}
	return q
}

// GetPage returns one page of vocabulary entries, newest first, optionally
// filtered by author and resuming after the document identified by
// startAfterID. The cursor is the last document ID of the previous page; to
// use StartAfter we fetch that document back as a snapshot. An empty or
// no-longer-existing cursor document starts from the top.
func (r *firestoreVocabularyRepository) GetPage(ctx context.Context, authorID string, limit int, startAfterID string) ([]*models.Vocabulary, string, error) {
	if limit <= 0 {
		return nil, "", errors.New("limit must be positive for GetPage operation")
	}

	q := r.query(authorID, limit)
	if startAfterID != "" {
		snap, err := r.client.Collection(vocabulariesCollection).Doc(startAfterID).Get(ctx)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return nil, "", fmt.Errorf("failed to resolve cursor document '%s': %w", startAfterID, err)
			}
		} else {
			q = q.StartAfter(snap)
		}
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var page []*models.Vocabulary
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to iterate vocabularies: %w", err)
		}

		var vocabulary models.Vocabulary
		if err := doc.DataTo(&vocabulary); err != nil {
			return nil, "", fmt.Errorf("failed to decode vocabulary data (ID: %s): %w", doc.Ref.ID, err)
		}
		vocabulary.VocabularyID = doc.Ref.ID
		page = append(page, &vocabulary)
	}

	nextCursor := ""
	if len(page) > 0 {
		nextCursor = page[len(page)-1].VocabularyID
	}
	return page, nextCursor, nil
}

// Listen re-emits the current result set on every change to the queried
// documents. Both channels are closed when ctx is cancelled; a terminal
// error other than cancellation is sent on the error channel first.
func (r *firestoreVocabularyRepository) Listen(ctx context.Context, authorID string, limit int) (<-chan []*models.Vocabulary, <-chan error) {
	pages := make(chan []*models.Vocabulary)
	errs := make(chan error, 1)

	go func() {
		defer close(pages)
		defer close(errs)

		snapIter := r.query(authorID, limit).Snapshots(ctx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					errs <- fmt.Errorf("vocabulary snapshot listener failed: %w", err)
				}
				return
			}

			var page []*models.Vocabulary
			docIter := snap.Documents
			for {
				doc, err := docIter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					errs <- fmt.Errorf("failed to iterate snapshot documents: %w", err)
					return
				}
				var vocabulary models.Vocabulary
				if err := doc.DataTo(&vocabulary); err != nil {
					errs <- fmt.Errorf("failed to decode vocabulary data (ID: %s): %w", doc.Ref.ID, err)
					return
				}
				vocabulary.VocabularyID = doc.Ref.ID
				page = append(page, &vocabulary)
			}

			select {
			case pages <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	return pages, errs
}
