package core

import (
	"context"

	"vocabshare-backend-go/internal/models"
)

// VocabularyPage is one page of enriched vocabulary entries plus the cursor
// for the next page. NextCursor is empty when the page is empty, which ends
// pagination.
type VocabularyPage struct {
	Vocabularies []*models.VocabularyWithAuthor `json:"vocabularies"`
	NextCursor   string                         `json:"nextCursor,omitempty"`
}

// VocabularyService defines the interface for vocabulary reads and writes.
type VocabularyService interface {
	AddVocabulary(ctx context.Context, uid string, req models.CreateVocabularyRequest) (*models.Vocabulary, error)
	// GetMyVocabularies returns the next page of the author's entries,
	// newest first, resuming after the given cursor when non-empty.
	GetMyVocabularies(ctx context.Context, authorID, cursor string) (*VocabularyPage, error)
	// GetLatestVocabularies returns the newest entries across all authors.
	GetLatestVocabularies(ctx context.Context) ([]*models.VocabularyWithAuthor, error)
	// Subscribe starts a push-based subscription that re-emits an enriched
	// page on every change to the underlying query. The caller ends the
	// subscription via Cancel (or by cancelling ctx).
	Subscribe(ctx context.Context, authorID string) (*VocabularySubscription, error)
}

// UserService defines the interface for user-profile operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID, creating the profile with the
	// given claims when it does not exist. The boolean reports whether the
	// profile was created.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}

// BillingService defines the interface for subscription billing operations.
// Each method performs at most one payment-processor call followed by at
// most one store write; failures propagate without retry or compensation.
type BillingService interface {
	// CreateCustomer creates a processor customer plus a subscription,
	// marks the user as a customer and records the uid↔customerId mapping.
	CreateCustomer(ctx context.Context, uid string, req models.CreateCustomerRequest) error
	// SubscribePlan creates an additional subscription for a known customer
	// and updates the user's subscription ID.
	SubscribePlan(ctx context.Context, uid, customerID string) error
	// UnsubscribePlan requests cancellation of the target user's current
	// subscription at the end of the billing period. Missing user documents
	// are a silent no-op.
	UnsubscribePlan(ctx context.Context, userID string) error
	// HandleSubscriptionCanceled clears the billing state of the user
	// owning the given processor customer ID. Returns false when no
	// customer record matches; that case is not an error.
	HandleSubscriptionCanceled(ctx context.Context, customerID string) (bool, error)
	// HandleInvoicePaid writes the billing period bounds onto the user
	// owning the given processor customer ID. Returns false when no
	// customer record matches.
	HandleInvoicePaid(ctx context.Context, customerID string, startDate, endDate int64) (bool, error)
	// DeleteCustomer deletes the processor customer for a user being
	// removed, cascading subscription cancellation processor-side, and
	// drops the customer record. Missing records are a silent no-op.
	DeleteCustomer(ctx context.Context, uid string) error
}

// PaymentClient abstracts the payment processor API. The concrete
// implementation lives in internal/payment.
type PaymentClient interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (customerID string, err error)
	// CreateSubscription subscribes the customer to the configured plan
	// with the configured default tax rate.
	CreateSubscription(ctx context.Context, customerID string) (subscriptionID string, err error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error
	DeleteCustomer(ctx context.Context, customerID string) error
}
