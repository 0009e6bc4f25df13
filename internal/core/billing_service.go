package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vocabshare-backend-go/internal/db"
	"vocabshare-backend-go/internal/models"
)

// ErrNoActiveSubscription is returned when an unsubscribe is requested for a
// user that has no subscription ID on record.
var ErrNoActiveSubscription = errors.New("user has no active subscription")

// billingService implements the BillingService interface. It is stateless:
// every method is an independent invocation holding no state across calls.
// Consistency between the processor and the store is last-write-wins; a
// processor failure leaves any earlier store state untouched.
type billingService struct {
	userRepo     db.UserRepository
	customerRepo db.CustomerRepository
	payments     PaymentClient
	logger       *zap.Logger
}

// NewBillingService creates a new BillingService instance.
func NewBillingService(userRepo db.UserRepository, customerRepo db.CustomerRepository, payments PaymentClient, logger *zap.Logger) BillingService {
	return &billingService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		payments:     payments,
		logger:       logger,
	}
}

// CreateCustomer creates a processor customer and an initial subscription,
// then marks the user as a customer and records the uid↔customerId mapping.
func (s *billingService) CreateCustomer(ctx context.Context, uid string, req models.CreateCustomerRequest) error {
	customerID, err := s.payments.CreateCustomer(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create processor customer for uid '%s': %w", uid, err)
	}

	subscriptionID, err := s.payments.CreateSubscription(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to create subscription for customer '%s': %w", customerID, err)
	}

	if err := s.userRepo.SetSubscription(ctx, uid, subscriptionID); err != nil {
		return err
	}
	if err := s.customerRepo.Set(ctx, &models.Customer{UID: uid, CustomerID: customerID}); err != nil {
		return err
	}

	s.logger.Info("customer created",
		zap.String("uid", uid),
		zap.String("customerId", customerID),
		zap.String("subscriptionId", subscriptionID),
	)
	return nil
}

// SubscribePlan creates an additional subscription for an already-known
// customer ID and updates the caller's subscription ID.
func (s *billingService) SubscribePlan(ctx context.Context, uid, customerID string) error {
	subscriptionID, err := s.payments.CreateSubscription(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to create subscription for customer '%s': %w", customerID, err)
	}
	return s.userRepo.SetSubscription(ctx, uid, subscriptionID)
}

// UnsubscribePlan requests cancellation of the target user's subscription at
// the end of the current billing period. A missing user document is a silent
// no-op with no processor call.
func (s *billingService) UnsubscribePlan(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("unsubscribe requested for unknown user", zap.String("userId", userID))
			return nil
		}
		return err
	}
	if user.SubscriptionID == nil || *user.SubscriptionID == "" {
		return fmt.Errorf("%w: '%s'", ErrNoActiveSubscription, userID)
	}
	return s.payments.CancelAtPeriodEnd(ctx, *user.SubscriptionID)
}

// HandleSubscriptionCanceled clears isCustomer/subscriptionId for the user
// owning the given processor customer ID. The write sets fixed values, so
// replaying the same event is harmless. Returns false when no customer
// record matches.
func (s *billingService) HandleSubscriptionCanceled(ctx context.Context, customerID string) (bool, error) {
	customer, err := s.customerRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("subscription-canceled event for unknown customer", zap.String("customerId", customerID))
			return false, nil
		}
		return false, err
	}
	if err := s.userRepo.ClearSubscription(ctx, customer.UID); err != nil {
		return false, err
	}
	return true, nil
}

// HandleInvoicePaid writes the billing period bounds onto the user owning
// the given processor customer ID. Same-event replays write the same values.
// Returns false when no customer record matches.
func (s *billingService) HandleInvoicePaid(ctx context.Context, customerID string, startDate, endDate int64) (bool, error) {
	customer, err := s.customerRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("invoice-paid event for unknown customer", zap.String("customerId", customerID))
			return false, nil
		}
		return false, err
	}
	if err := s.userRepo.SetBillingPeriod(ctx, customer.UID, startDate, endDate); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteCustomer removes the processor customer of a user being deleted.
// Deleting the processor customer cascades subscription cancellation on the
// processor side; the local mapping is dropped afterwards.
func (s *billingService) DeleteCustomer(ctx context.Context, uid string) error {
	customer, err := s.customerRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.payments.DeleteCustomer(ctx, customer.CustomerID); err != nil {
		return fmt.Errorf("failed to delete processor customer '%s': %w", customer.CustomerID, err)
	}
	return s.customerRepo.Delete(ctx, uid)
}
