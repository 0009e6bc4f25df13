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

const customersCollection = "customers"

// firestoreCustomerRepository implements the CustomerRepository interface
// using Firestore.
type firestoreCustomerRepository struct {
	client *firestore.Client
}

// NewFirestoreCustomerRepository creates a new instance of
// firestoreCustomerRepository.
func NewFirestoreCustomerRepository(client *firestore.Client) CustomerRepository {
	return &firestoreCustomerRepository{client: client}
}

// Set writes the uid↔customerId mapping at customers/{uid}, overwriting any
// previous mapping for that user.
func (r *firestoreCustomerRepository) Set(ctx context.Context, customer *models.Customer) error {
	if customer.UID == "" {
		return errors.New("customer UID cannot be empty for Set operation")
	}
	_, err := r.client.Collection(customersCollection).Doc(customer.UID).Set(ctx, customer)
	if err != nil {
		return fmt.Errorf("failed to set customer record for uid '%s': %w", customer.UID, err)
	}
	return nil
}

// GetByUID retrieves the customer record for a user.
func (r *firestoreCustomerRepository) GetByUID(ctx context.Context, uid string) (*models.Customer, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetByUID operation")
	}
	docSnap, err := r.client.Collection(customersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("customer record for uid '%s' not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer record for uid '%s': %w", uid, err)
	}

	var customer models.Customer
	if err := docSnap.DataTo(&customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer record for uid '%s': %w", uid, err)
	}
	return &customer, nil
}

// GetByCustomerID resolves the mapping from the processor-side customer ID.
// The customerId is unique per uid, so the first match is the only one.
func (r *firestoreCustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Customer, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty for GetByCustomerID operation")
	}
	iter := r.client.Collection(customersCollection).
		Where("customerId", "==", customerID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("customer record for customerId '%s' not found: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer record for customerId '%s': %w", customerID, err)
	}

	var customer models.Customer
	if err := doc.DataTo(&customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer record for customerId '%s': %w", customerID, err)
	}
	return &customer, nil
}

// Delete removes the customer record for a user.
func (r *firestoreCustomerRepository) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.New("uid cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(customersCollection).Doc(uid).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete customer record for uid '%s': %w", uid, err)
	}
	return nil
}
