package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crowddocs/contribution-service/internal/blob"
	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/services"
	"github.com/crowddocs/contribution-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	documentHandler     *DocumentHandler
	contributionHandler *ContributionHandler
	adminHandler        *AdminHandler
	userHandler         *UserHandler
	authMiddleware      *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *AuthMiddleware,
	blobs blob.Store,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), authMiddleware, logger),
		documentHandler:     NewDocumentHandler(serviceManager.Catalog(), logger),
		contributionHandler: NewContributionHandler(serviceManager.Contribution(), blobs, logger),
		adminHandler:        NewAdminHandler(serviceManager.Contribution(), serviceManager.Export(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	api := router.Group("/api")
	{
		// Public auth surface
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.POST("/verifyEmail", hm.authHandler.VerifyEmail)
			authRoutes.POST("/requestPasswordReset", hm.authHandler.RequestPasswordReset)
			authRoutes.POST("/resetPassword", hm.authHandler.ResetPassword)
		}

		// Public published-catalog reads
		api.GET("/documents", hm.documentHandler.ListDocuments)
		api.GET("/documents/:id", hm.documentHandler.GetDocumentDetails)

		// Contribution surface - authenticated
		propose := api.Group("/propose")
		propose.Use(hm.authMiddleware.Authenticate())
		{
			// Role-branched creation: admins publish, users propose
			propose.POST("/document", hm.contributionHandler.ProposeDocument)

			// Fix proposals - user role only, admins edit documents directly
			propose.POST("/fix/:docid", hm.authMiddleware.RequireRoleMiddleware(models.RoleUser), hm.contributionHandler.ProposeFix)

			propose.PATCH("/document/:id", hm.contributionHandler.UpdateProposedDocument)
			propose.PATCH("/fix/:id", hm.contributionHandler.UpdateFix)
			propose.DELETE("/document/:id", hm.contributionHandler.DeleteProposedDocument)
			propose.DELETE("/fix/:id", hm.contributionHandler.DeleteFix)

			// Own-queue listings
			propose.GET("/document", hm.authMiddleware.RequireRoleMiddleware(models.RoleUser), hm.contributionHandler.ListMyProposedDocuments)
			propose.GET("/fix", hm.authMiddleware.RequireRoleMiddleware(models.RoleUser), hm.contributionHandler.ListMyFixes)

			// Per-record detail, owner-or-admin enforced in the service
			propose.GET("/document/:id", hm.contributionHandler.GetProposedDocument)
			propose.GET("/fix/:id", hm.contributionHandler.GetFix)
		}

		// Admin moderation queue - admin role required
		admin := api.Group("/admin")
		admin.Use(hm.authMiddleware.Authenticate(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/proposedDocuments", hm.adminHandler.ListProposedDocuments)
			admin.GET("/proposedFixes", hm.adminHandler.ListProposedFixes)
			admin.GET("/proposedDocuments/export", hm.adminHandler.ExportModerationQueue)
			admin.GET("/proposedDocuments/:id", hm.contributionHandler.GetProposedDocument)
			admin.GET("/proposedFixes/:id", hm.contributionHandler.GetFix)
		}

		// Profile
		users := api.Group("/users")
		users.Use(hm.authMiddleware.Authenticate())
		{
			users.GET("/profile", hm.userHandler.GetProfile)
			users.PATCH("/updateProfile", hm.userHandler.UpdateProfile)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "contribution-service",
	})
}
