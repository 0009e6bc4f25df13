package api

// ErrorResponse is a generic structure for returning errors via API. Code
// carries a named failure code such as "permission-denied" or
// "unauthenticated" when one applies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Named failure codes surfaced to the client.
const (
	codePermissionDenied = "permission-denied"
	codeUnauthenticated  = "unauthenticated"
)
