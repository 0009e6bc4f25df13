package db

import (
	"context"

	"vocabshare-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
// The partial-update methods mirror the field-level writes the billing flow
// performs; each is a single set-to-fixed-value write with no read-modify
// cycle, so replaying one is harmless.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// SetSubscription marks the user as a customer with the given
	// subscription ID.
	SetSubscription(ctx context.Context, userID, subscriptionID string) error
	// ClearSubscription clears isCustomer and subscriptionId.
	ClearSubscription(ctx context.Context, userID string) error
	// SetBillingPeriod writes the current billing period bounds (unix
	// seconds) onto the user document.
	SetBillingPeriod(ctx context.Context, userID string, startDate, endDate int64) error
	Delete(ctx context.Context, userID string) error
}

// VocabularyRepository defines the interface for vocabulary storage and
// paginated reads.
type VocabularyRepository interface {
	// Create stores a new vocabulary entry with an auto-generated ID and
	// returns that ID.
	Create(ctx context.Context, vocabulary *models.Vocabulary) (string, error)
	// GetPage returns up to limit entries ordered by createdAt descending,
	// optionally filtered by author (empty authorID means all authors) and
	// optionally resuming after the document identified by startAfterID.
	// The second return value is the ID of the last document in the page,
	// empty when the page is empty.
	GetPage(ctx context.Context, authorID string, limit int, startAfterID string) ([]*models.Vocabulary, string, error)
	// Listen emits the current result set of the same query on every
	// underlying change until ctx is cancelled. The returned channels are
	// closed on teardown.
	Listen(ctx context.Context, authorID string, limit int) (<-chan []*models.Vocabulary, <-chan error)
}

// CustomerRepository defines the interface for the uid↔customerId mapping
// stored at customers/{uid}.
type CustomerRepository interface {
	Set(ctx context.Context, customer *models.Customer) error
	GetByUID(ctx context.Context, uid string) (*models.Customer, error)
	// GetByCustomerID resolves the mapping from the processor-side customer
	// ID, as webhook payloads only carry that.
	GetByCustomerID(ctx context.Context, customerID string) (*models.Customer, error)
	Delete(ctx context.Context, uid string) error
}
