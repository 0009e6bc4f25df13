package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/config"
	"vocabshare-backend-go/internal/core"
)

const maxWebhookBodyBytes = int64(65536)

// WebhookHandler receives the payment processor's event callbacks. When a
// webhook signing secret is configured the Stripe-Signature header is
// verified and bad signatures are rejected with 400; without a secret the
// payload is trusted as-is.
//
// Both endpoints acknowledge with 200 and a boolean body once the payload is
// parsed, before the store write completes: delivery is at-most-once and a
// write failure after acknowledgement is only logged. Replays are safe
// because both writes set fixed values.
type WebhookHandler struct {
	billingService core.BillingService
	webhookSecret  string
	logger         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(bs core.BillingService, appConfig *config.Config, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		billingService: bs,
		webhookSecret:  appConfig.StripeWebhookSecret,
		logger:         logger,
	}
}

// parseEvent reads and, when configured, signature-verifies the event
// envelope from the request.
func (h *WebhookHandler) parseEvent(c *gin.Context) (*stripe.Event, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read webhook payload"})
		return nil, false
	}

	var event stripe.Event
	if h.webhookSecret != "" {
		event, err = webhook.ConstructEventWithOptions(
			body,
			c.GetHeader("Stripe-Signature"),
			h.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
		)
		if err != nil {
			h.logger.Warn("webhook signature verification failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
			return nil, false
		}
	} else if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid event payload"})
		return nil, false
	}

	return &event, true
}

// ReceiveUnsubscribe handles POST /billing/webhooks/unsubscribe: a
// subscription-canceled event. An unknown customer ID is acknowledged and
// ignored.
func (h *WebhookHandler) ReceiveUnsubscribe(c *gin.Context) {
	event, ok := h.parseEvent(c)
	if !ok {
		return
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid subscription payload"})
		return
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing customer id"})
		return
	}

	c.JSON(http.StatusOK, true)

	handled, err := h.billingService.HandleSubscriptionCanceled(c.Request.Context(), sub.Customer.ID)
	if err != nil {
		h.logger.Error("subscription-canceled write failed after acknowledgement",
			zap.String("customerId", sub.Customer.ID), zap.Error(err))
		return
	}
	if !handled {
		h.logger.Info("subscription-canceled event ignored", zap.String("customerId", sub.Customer.ID))
	}
}

// ReceiveSubscribe handles POST /billing/webhooks/subscribe: an
// invoice-succeeded event carrying the billing period.
func (h *WebhookHandler) ReceiveSubscribe(c *gin.Context) {
	event, ok := h.parseEvent(c)
	if !ok {
		return
	}

	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid invoice payload"})
		return
	}
	if invoice.Customer == nil || invoice.Customer.ID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing customer id"})
		return
	}
	if invoice.Lines == nil || len(invoice.Lines.Data) == 0 || invoice.Lines.Data[0].Period == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing billing period"})
		return
	}
	period := invoice.Lines.Data[0].Period

	c.JSON(http.StatusOK, true)

	handled, err := h.billingService.HandleInvoicePaid(c.Request.Context(), invoice.Customer.ID, period.Start, period.End)
	if err != nil {
		h.logger.Error("invoice-paid write failed after acknowledgement",
			zap.String("customerId", invoice.Customer.ID), zap.Error(err))
		return
	}
	if !handled {
		h.logger.Info("invoice-paid event ignored", zap.String("customerId", invoice.Customer.ID))
	}
}
