package models

// CreateVocabularyRequest represents the request body for adding a new
// vocabulary entry. The author is taken from the authenticated caller.
type CreateVocabularyRequest struct {
	Word    string `json:"word" binding:"required"`
	Meaning string `json:"meaning" binding:"required"`
	Example string `json:"example,omitempty"`
}

// CreateCustomerRequest represents the request body for creating a payment
// processor customer. The fields are forwarded to the processor as-is.
type CreateCustomerRequest struct {
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
}

// SubscribePlanRequest represents the request body for starting an
// additional subscription for an already-known customer.
type SubscribePlanRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
}

// UnsubscribePlanRequest represents the request body for cancelling a
// user's subscription at the end of the current billing period.
type UnsubscribePlanRequest struct {
	UserID string `json:"userId" binding:"required"`
}
