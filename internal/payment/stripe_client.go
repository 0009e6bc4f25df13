// Package payment implements core.PaymentClient against the Stripe API.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"

	"vocabshare-backend-go/internal/config"
	"vocabshare-backend-go/internal/models"
)

// StripeClient calls the Stripe API with the plan and tax-rate identifiers
// fixed at construction from the application configuration.
type StripeClient struct {
	planID    string
	taxRateID string
}

// NewStripeClient sets the global Stripe API key and returns a client bound
// to the configured plan and default tax rate.
func NewStripeClient(appConfig *config.Config) *StripeClient {
	stripe.Key = appConfig.StripeSecretKey
	return &StripeClient{
		planID:    appConfig.StripePlanID,
		taxRateID: appConfig.StripeTaxRateID,
	}
}

// CreateCustomer creates a Stripe customer from the request fields.
func (c *StripeClient) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	}
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer create: %w", err)
	}
	return cust.ID, nil
}

// CreateSubscription subscribes the customer to the configured plan with the
// configured default tax rate.
func (c *StripeClient) CreateSubscription(ctx context.Context, customerID string) (string, error) {
	params := &stripe.SubscriptionParams{
		Params:          stripe.Params{Context: ctx},
		Customer:        stripe.String(customerID),
		DefaultTaxRates: []*string{stripe.String(c.taxRateID)},
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(c.planID)},
		},
	}

	sub, err := subscription.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe subscription create: %w", err)
	}
	return sub.ID, nil
}

// CancelAtPeriodEnd requests cancellation at the end of the current billing
// period rather than immediately.
func (c *StripeClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		Params:            stripe.Params{Context: ctx},
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("stripe subscription cancel: %w", err)
	}
	return nil
}

// DeleteCustomer deletes the Stripe customer, which cascades cancellation of
// its subscriptions on the Stripe side.
func (c *StripeClient) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	}
	if _, err := customer.Del(customerID, params); err != nil {
		return fmt.Errorf("stripe customer delete: %w", err)
	}
	return nil
}
