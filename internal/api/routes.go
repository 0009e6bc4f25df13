package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vocabshare-backend-go/internal/config"
	"vocabshare-backend-go/internal/core"
	"vocabshare-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router before this is called, in main.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authClient *auth.Client,
	userService core.UserService,
	vocabularyService core.VocabularyService,
	billingService core.BillingService,
) {
	authMW := middleware.NewAuthMiddleware(authClient, logger)

	userHandler := NewUserHandler(userService, billingService, authClient, logger)
	vocabularyHandler := NewVocabularyHandler(vocabularyService, logger)
	billingHandler := NewBillingHandler(billingService, logger)
	webhookHandler := NewWebhookHandler(billingService, appConfig, logger)

	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			users.POST("/initialize", authMW.VerifyToken(), userHandler.InitializeProfile)
			users.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUser)
			users.DELETE("/me", authMW.VerifyToken(), userHandler.DeleteAccount)
		}

		vocabularies := apiV1.Group("/vocabularies")
		{
			vocabularies.POST("", authMW.VerifyToken(), vocabularyHandler.CreateVocabulary)
			vocabularies.GET("/latest", vocabularyHandler.ListLatestVocabularies)
			vocabularies.GET("/mine", authMW.VerifyToken(), vocabularyHandler.ListMyVocabularies)
			vocabularies.GET("/stream", vocabularyHandler.StreamVocabularies)
		}

		billing := apiV1.Group("/billing")
		{
			billing.POST("/create-customer", authMW.VerifyToken(), billingHandler.CreateCustomer)
			billing.POST("/subscribe", authMW.VerifyToken(), billingHandler.SubscribePlan)
			billing.POST("/unsubscribe", authMW.VerifyToken(), billingHandler.UnsubscribePlan)

			// Webhook endpoints carry no auth middleware; the processor
			// authenticates via the Stripe-Signature header when a signing
			// secret is configured.
			billing.POST("/webhooks/unsubscribe", webhookHandler.ReceiveUnsubscribe)
			billing.POST("/webhooks/subscribe", webhookHandler.ReceiveSubscribe)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured")
}
