package api

import (
	"errors"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/core"
)

// UserHandler handles user profile endpoints, including the account deletion
// flow that triggers billing cleanup.
type UserHandler struct {
	userService    core.UserService
	billingService core.BillingService
	authClient     *auth.Client
	logger         *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, bs core.BillingService, authClient *auth.Client, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:    us,
		billingService: bs,
		authClient:     authClient,
		logger:         logger,
	}
}

// InitializeProfile handles POST /users/initialize. Called after client-side
// Firebase login to ensure the backend profile document exists.
func (h *UserHandler) InitializeProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", Code: codeUnauthenticated})
		return
	}

	user, created, err := h.userService.GetOrCreate(
		c.Request.Context(),
		userID.(string),
		c.GetString("userEmail"),
		c.GetString("userDisplayName"),
		c.GetString("userPhotoURL"),
	)
	if err != nil {
		h.logger.Error("failed to initialize profile", zap.String("uid", userID.(string)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize profile"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// GetCurrentUser handles GET /users/me.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", Code: codeUnauthenticated})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		h.logger.Error("failed to get profile", zap.String("uid", userID.(string)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteAccount handles DELETE /users/me. Deleting the account first runs
// the billing cleanup (processor customer deletion cascades subscription
// cancellation), then removes the profile document and the auth user.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", Code: codeUnauthenticated})
		return
	}
	uid := userID.(string)

	if err := h.billingService.DeleteCustomer(c.Request.Context(), uid); err != nil {
		h.logger.Error("billing cleanup failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete billing customer"})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), uid); err != nil {
		h.logger.Error("profile deletion failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete profile"})
		return
	}

	if err := h.authClient.DeleteUser(c.Request.Context(), uid); err != nil {
		h.logger.Error("auth user deletion failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Account deleted"})
}
