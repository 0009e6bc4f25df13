package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/core"
	"vocabshare-backend-go/internal/models"
)

// mockBillingService records calls so handler tests can assert that denied
// requests never reach the service.
type mockBillingService struct {
	calls []string

	canceledHandled bool
	invoiceHandled  bool
	unsubscribeErr  error

	lastCustomerID string
	lastStart      int64
	lastEnd        int64
}

func (m *mockBillingService) CreateCustomer(_ context.Context, uid string, _ models.CreateCustomerRequest) error {
	m.calls = append(m.calls, "CreateCustomer:"+uid)
	return nil
}

func (m *mockBillingService) SubscribePlan(_ context.Context, uid, customerID string) error {
	m.calls = append(m.calls, "SubscribePlan:"+uid+":"+customerID)
	return nil
}

func (m *mockBillingService) UnsubscribePlan(_ context.Context, userID string) error {
	m.calls = append(m.calls, "UnsubscribePlan:"+userID)
	return m.unsubscribeErr
}

func (m *mockBillingService) HandleSubscriptionCanceled(_ context.Context, customerID string) (bool, error) {
	m.calls = append(m.calls, "HandleSubscriptionCanceled:"+customerID)
	m.lastCustomerID = customerID
	return m.canceledHandled, nil
}

func (m *mockBillingService) HandleInvoicePaid(_ context.Context, customerID string, startDate, endDate int64) (bool, error) {
	m.calls = append(m.calls, "HandleInvoicePaid:"+customerID)
	m.lastCustomerID = customerID
	m.lastStart = startDate
	m.lastEnd = endDate
	return m.invoiceHandled, nil
}

func (m *mockBillingService) DeleteCustomer(_ context.Context, uid string) error {
	m.calls = append(m.calls, "DeleteCustomer:"+uid)
	return nil
}

func newTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, rec
}

func TestCreateCustomerUnauthenticated(t *testing.T) {
	svc := &mockBillingService{}
	h := NewBillingHandler(svc, zap.NewNop())

	c, rec := newTestContext(t, http.MethodPost, "/billing/create-customer", []byte(`{"email":"a@b.c"}`))
	h.CreateCustomer(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "permission-denied", resp.Code)
	assert.Empty(t, svc.calls, "denied request must not reach the service")
}

func TestCreateCustomerAuthenticated(t *testing.T) {
	svc := &mockBillingService{}
	h := NewBillingHandler(svc, zap.NewNop())

	c, rec := newTestContext(t, http.MethodPost, "/billing/create-customer", []byte(`{"email":"a@b.c"}`))
	c.Set("userID", "u1")
	h.CreateCustomer(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"CreateCustomer:u1"}, svc.calls)
}

func TestSubscribePlanUnauthenticated(t *testing.T) {
	svc := &mockBillingService{}
	h := NewBillingHandler(svc, zap.NewNop())

	c, rec := newTestContext(t, http.MethodPost, "/billing/subscribe", []byte(`{"customerId":"cus_1"}`))
	h.SubscribePlan(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.calls)
}

func TestSubscribePlan(t *testing.T) {
	svc := &mockBillingService{}
	h := NewBillingHandler(svc, zap.NewNop())

	c, rec := newTestContext(t, http.MethodPost, "/billing/subscribe", []byte(`{"customerId":"cus_1"}`))
	c.Set("userID", "u1")
	h.SubscribePlan(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"SubscribePlan:u1:cus_1"}, svc.calls)
}

func TestUnsubscribePlanNoActiveSubscription(t *testing.T) {
	svc := &mockBillingService{unsubscribeErr: core.ErrNoActiveSubscription}
	h := NewBillingHandler(svc, zap.NewNop())

	c, rec := newTestContext(t, http.MethodPost, "/billing/unsubscribe", []byte(`{"userId":"u2"}`))
	c.Set("userID", "u1")
	h.UnsubscribePlan(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"UnsubscribePlan:u2"}, svc.calls)
}

func TestUnsubscribePlan(t *testing.T) {
	svc := &mockBillingService{}
	h := NewBillingHandler(svc, zap.NewNop())

	c, rec := newTestContext(t, http.MethodPost, "/billing/unsubscribe", []byte(`{"userId":"u2"}`))
	c.Set("userID", "u1")
	h.UnsubscribePlan(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"UnsubscribePlan:u2"}, svc.calls)
}
