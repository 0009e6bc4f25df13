package models

import "time"

// User represents a user profile stored at users/{uid}.
// The document ID is the Firebase Auth UID.
type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty" firestore:"photoURL"`

	// Billing state. IsCustomer true implies SubscriptionID is set; the
	// pairing is maintained by the billing handlers, not by the store.
	IsCustomer     bool    `json:"isCustomer" firestore:"isCustomer"`
	SubscriptionID *string `json:"subscriptionId,omitempty" firestore:"subscriptionId"`

	// Current billing period bounds in unix seconds, written by the
	// invoice-succeeded webhook.
	StartDate *int64 `json:"startDate,omitempty" firestore:"startDate"`
	EndDate   *int64 `json:"endDate,omitempty" firestore:"endDate"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Customer maps an internal user ID to the payment processor's customer ID.
// Stored at customers/{uid}; created at subscription signup and deleted
// together with the user.
type Customer struct {
	UID        string `json:"uid" firestore:"uid"`
	CustomerID string `json:"customerId" firestore:"customerId"`
}
