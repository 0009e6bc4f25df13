package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/config"
)

func newTestWebhookHandler(svc *mockBillingService, webhookSecret string) *WebhookHandler {
	return NewWebhookHandler(svc, &config.Config{StripeWebhookSecret: webhookSecret}, zap.NewNop())
}

func TestReceiveUnsubscribe(t *testing.T) {
	payload := []byte(`{"type":"customer.subscription.deleted","data":{"object":{"id":"sub_1","customer":"cus_1"}}}`)

	t.Run("clears matching customer", func(t *testing.T) {
		svc := &mockBillingService{canceledHandled: true}
		h := newTestWebhookHandler(svc, "")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/unsubscribe", payload)
		h.ReceiveUnsubscribe(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Body.String())
		assert.Equal(t, []string{"HandleSubscriptionCanceled:cus_1"}, svc.calls)
	})

	t.Run("unknown customer still gets 200", func(t *testing.T) {
		svc := &mockBillingService{canceledHandled: false}
		h := newTestWebhookHandler(svc, "")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/unsubscribe", payload)
		h.ReceiveUnsubscribe(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Body.String())
	})

	t.Run("missing customer id", func(t *testing.T) {
		svc := &mockBillingService{}
		h := newTestWebhookHandler(svc, "")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/unsubscribe",
			[]byte(`{"type":"customer.subscription.deleted","data":{"object":{"id":"sub_1"}}}`))
		h.ReceiveUnsubscribe(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.calls)
	})

	t.Run("unsigned payload rejected when secret configured", func(t *testing.T) {
		svc := &mockBillingService{}
		h := newTestWebhookHandler(svc, "whsec_test")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/unsubscribe", payload)
		h.ReceiveUnsubscribe(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.calls)
	})
}

func TestReceiveSubscribe(t *testing.T) {
	payload := []byte(`{"type":"invoice.payment_succeeded","data":{"object":{"customer":"cus_1","lines":{"data":[{"period":{"start":1700000000,"end":1702592000}}]}}}}`)

	t.Run("writes billing period", func(t *testing.T) {
		svc := &mockBillingService{invoiceHandled: true}
		h := newTestWebhookHandler(svc, "")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/subscribe", payload)
		h.ReceiveSubscribe(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Body.String())
		require.Equal(t, []string{"HandleInvoicePaid:cus_1"}, svc.calls)
		assert.Equal(t, int64(1700000000), svc.lastStart)
		assert.Equal(t, int64(1702592000), svc.lastEnd)
	})

	t.Run("unknown customer still gets 200", func(t *testing.T) {
		svc := &mockBillingService{invoiceHandled: false}
		h := newTestWebhookHandler(svc, "")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/subscribe", payload)
		h.ReceiveSubscribe(c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Body.String())
	})

	t.Run("missing billing period", func(t *testing.T) {
		svc := &mockBillingService{}
		h := newTestWebhookHandler(svc, "")

		c, rec := newTestContext(t, http.MethodPost, "/billing/webhooks/subscribe",
			[]byte(`{"type":"invoice.payment_succeeded","data":{"object":{"customer":"cus_1","lines":{"data":[]}}}}`))
		h.ReceiveSubscribe(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.calls)
	})
}
