package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/org-hierarchy-api/internal/dto"
	apierrors "github.com/yukikurage/org-hierarchy-api/internal/errors"
	"github.com/yukikurage/org-hierarchy-api/internal/hierarchy"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
	"github.com/yukikurage/org-hierarchy-api/internal/middleware"
	"github.com/yukikurage/org-hierarchy-api/internal/services"
	"github.com/yukikurage/org-hierarchy-api/internal/utils"
)

// OrganizationHandler serves organization and hierarchy endpoints.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization creates a new organization, optionally under a parent.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOrgRequest struct {
		Name                 string  `json:"name" binding:"required"`
		ParentOrganizationID *uint64 `json:"parent_organization_id"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), services.CreateOrganizationInput{
		Name:                 req.Name,
		OwnerID:              userID,
		ParentOrganizationID: req.ParentOrganizationID,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListOrganizations returns a page of the organizations the user is a member of.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	memberships, total, err := h.orgService.ListOrganizationsForUser(c.Request.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationListResponse(memberships, params.Response(total)))
}

// GetOrganization returns organization details.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}
	member, _ := middleware.GetOrganizationMember(c)

	_, members, err := h.orgService.GetOrganizationWithMembers(c.Request.Context(), org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDetailDTO(org, members, member.Role))
}

// UpdateOrganization updates organization name.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	type UpdateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.orgService.UpdateOrganizationName(c.Request.Context(), org.ID, req.Name)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*updated))
}

// DeleteOrganization deletes an organization and everything below it.
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	if err := h.orgService.DeleteOrganization(c.Request.Context(), org.ID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Organization deleted successfully",
	})
}

// SetParent moves an organization under another one. A null
// parent_organization_id makes it a root.
func (h *OrganizationHandler) SetParent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	type SetParentRequest struct {
		ParentOrganizationID *uint64 `json:"parent_organization_id"`
	}

	var req SetParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.orgService.ReparentOrganization(c.Request.Context(), services.ReparentInput{
		OrganizationID: org.ID,
		ActorID:        userID,
		NewParentID:    req.ParentOrganizationID,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*updated))
}

// GetHierarchy reports depth, subtree depth and direct children.
func (h *OrganizationHandler) GetHierarchy(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	info, err := h.orgService.GetHierarchyInfo(c.Request.Context(), org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHierarchyDTO(*info, hierarchy.MaxHierarchyDepth))
}

// ListDescendants returns the ids of every organization below this one.
func (h *OrganizationHandler) ListDescendants(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	ids, truncated, err := h.orgService.ListDescendants(c.Request.Context(), org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DescendantsDTO{
		OrganizationID: org.ID,
		DescendantIDs:  ids,
		Truncated:      truncated,
	})
}

func respondOrganizationError(c *gin.Context, err error) {
	var verr *hierarchy.ValidationError
	switch {
	case errors.Is(err, hierarchy.ErrHierarchyCycle):
		apierrors.HierarchyCycle(c, err.Error())
	case errors.As(err, &verr) && errors.Is(err, hierarchy.ErrHierarchyDepthExceeded):
		apierrors.HierarchyDepthExceeded(c, err.Error(), gin.H{
			"depth": verr.Depth,
			"limit": verr.Limit,
		})
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrParentOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrParentAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidOrganizationName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSubtreeTooLarge):
		apierrors.SubtreeTooLarge(c, err.Error())
	default:
		logging.FromContext(c.Request.Context()).WithError(err).Error("organization request failed")
		apierrors.InternalError(c, "")
	}
}
