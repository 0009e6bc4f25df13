package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/core"
	"vocabshare-backend-go/internal/models"
)

// BillingHandler handles the authenticated billing endpoints. Webhook
// endpoints live in WebhookHandler.
type BillingHandler struct {
	billingService core.BillingService
	logger         *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, logger: logger}
}

// CreateCustomer handles POST /billing/create-customer. An unauthenticated
// caller is denied with the permission-denied code before any processor or
// store call is made.
func (h *BillingHandler) CreateCustomer(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Caller is not authenticated", Code: codePermissionDenied})
		return
	}

	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.billingService.CreateCustomer(c.Request.Context(), userID.(string), req); err != nil {
		h.logger.Error("create customer failed", zap.String("uid", userID.(string)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create customer"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Customer created"})
}

// SubscribePlan handles POST /billing/subscribe.
func (h *BillingHandler) SubscribePlan(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Caller is not authenticated", Code: codeUnauthenticated})
		return
	}

	var req models.SubscribePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.billingService.SubscribePlan(c.Request.Context(), userID.(string), req.CustomerID); err != nil {
		h.logger.Error("subscribe failed", zap.String("uid", userID.(string)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Subscription created"})
}

// UnsubscribePlan handles POST /billing/unsubscribe. Cancellation takes
// effect at the end of the current billing period, not immediately.
func (h *BillingHandler) UnsubscribePlan(c *gin.Context) {
	if _, exists := c.Get("userID"); !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Caller is not authenticated", Code: codeUnauthenticated})
		return
	}

	var req models.UnsubscribePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.billingService.UnsubscribePlan(c.Request.Context(), req.UserID); err != nil {
		if errors.Is(err, core.ErrNoActiveSubscription) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User has no active subscription"})
			return
		}
		h.logger.Error("unsubscribe failed", zap.String("userId", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Cancellation scheduled"})
}
