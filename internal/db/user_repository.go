package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"vocabshare-backend-go/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document. The user.ID (Firebase Auth UID) is used
// as the document ID; CreatedAt/UpdatedAt are set server-side via the
// serverTimestamp tags.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID
	return &user, nil
}

// SetSubscription marks the user as a customer with the given subscription ID.
func (r *firestoreUserRepository) SetSubscription(ctx context.Context, userID, subscriptionID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetSubscription operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "isCustomer", Value: true},
		{Path: "subscriptionId", Value: subscriptionID},
	})
	if err != nil {
		return fmt.Errorf("failed to set subscription for user '%s': %w", userID, err)
	}
	return nil
}

// ClearSubscription clears isCustomer and subscriptionId on the user document.
func (r *firestoreUserRepository) ClearSubscription(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for ClearSubscription operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "isCustomer", Value: false},
		{Path: "subscriptionId", Value: nil},
	})
	if err != nil {
		return fmt.Errorf("failed to clear subscription for user '%s': %w", userID, err)
	}
	return nil
}

// SetBillingPeriod writes the billing period bounds onto the user document.
func (r *firestoreUserRepository) SetBillingPeriod(ctx context.Context, userID string, startDate, endDate int64) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetBillingPeriod operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "startDate", Value: startDate},
		{Path: "endDate", Value: endDate},
	})
	if err != nil {
		return fmt.Errorf("failed to set billing period for user '%s': %w", userID, err)
	}
	return nil
}

// Delete removes the user document.
func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user with ID '%s': %w", userID, err)
	}
	return nil
}
