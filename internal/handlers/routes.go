package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/org-hierarchy-api/internal/middleware"
	"github.com/yukikurage/org-hierarchy-api/internal/repository"
)

// RegisterRoutes mounts the auth and organization endpoints on api.
func RegisterRoutes(api *gin.RouterGroup, authHandler *AuthHandler, orgHandler *OrganizationHandler, orgRepo repository.OrganizationRepository) {
	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	// Organization routes (protected)
	access := middleware.RequireOrganizationAccess(orgRepo)
	owner := middleware.RequireOrganizationOwner()

	orgs := api.Group("/organizations")
	orgs.Use(middleware.RequireAuth())
	{
		orgs.POST("", orgHandler.CreateOrganization)
		orgs.GET("", orgHandler.ListOrganizations)
		orgs.GET("/:id", access, orgHandler.GetOrganization)
		orgs.PUT("/:id", access, owner, orgHandler.UpdateOrganization)
		orgs.DELETE("/:id", access, owner, orgHandler.DeleteOrganization)
		orgs.PUT("/:id/parent", access, owner, orgHandler.SetParent)
		orgs.GET("/:id/hierarchy", access, orgHandler.GetHierarchy)
		orgs.GET("/:id/descendants", access, orgHandler.ListDescendants)
	}
}
