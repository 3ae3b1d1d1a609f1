package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yukikurage/org-hierarchy-api/internal/constants"
	apierrors "github.com/yukikurage/org-hierarchy-api/internal/errors"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
	"github.com/yukikurage/org-hierarchy-api/internal/models"
	"github.com/yukikurage/org-hierarchy-api/internal/repository"
)

// RequireOrganizationAccess checks if the user is a member of the organization
func RequireOrganizationAccess(orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		org, err := orgRepo.FindByID(ctx, orgID)
		if err != nil {
			respondLookupError(c, err, "Organization not found")
			return
		}

		member, err := orgRepo.FindMember(ctx, orgID, userID)
		if err != nil {
			// 404 instead of 403 to avoid leaking organization existence
			respondLookupError(c, err, "Organization not found")
			return
		}

		c.Set(constants.ContextKeyOrganization, *org)
		c.Set(constants.ContextKeyOrganizationMember, *member)
		c.Next()
	}
}

// RequireOrganizationOwner checks if the user is an owner of the organization
func RequireOrganizationOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetOrganizationMember(c)
		if !ok {
			apierrors.Forbidden(c, "Organization access required")
			c.Abort()
			return
		}

		if !member.IsOwner() {
			apierrors.Forbidden(c, "Only organization owners can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetOrganization returns the organization loaded by RequireOrganizationAccess
func GetOrganization(c *gin.Context) (models.Organization, bool) {
	v, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return models.Organization{}, false
	}
	org, ok := v.(models.Organization)
	return org, ok
}

// GetOrganizationMember returns the membership loaded by RequireOrganizationAccess
func GetOrganizationMember(c *gin.Context) (models.OrganizationMember, bool) {
	v, exists := c.Get(constants.ContextKeyOrganizationMember)
	if !exists {
		return models.OrganizationMember{}, false
	}
	member, ok := v.(models.OrganizationMember)
	return member, ok
}

func respondLookupError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apierrors.NotFound(c, notFound)
	} else {
		logging.FromContext(c.Request.Context()).WithError(err).Error("organization lookup failed")
		apierrors.InternalError(c, "")
	}
	c.Abort()
}
