package dto

import (
	"time"

	"github.com/yukikurage/org-hierarchy-api/internal/models"
	"github.com/yukikurage/org-hierarchy-api/internal/services"
	"github.com/yukikurage/org-hierarchy-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID                   uint64    `json:"id"`
	Name                 string    `json:"name"`
	ParentOrganizationID *uint64   `json:"parent_organization_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// OrganizationListResponse is a page of organizations the user belongs to
type OrganizationListResponse struct {
	Organizations []OrganizationWithRoleDTO `json:"organizations"`
	utils.PaginationResponse
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User     UserDTO                 `json:"user"`
	Role     models.OrganizationRole `json:"role"`
	JoinedAt time.Time               `json:"joined_at"`
}

// OrganizationDetailDTO represents detailed organization information
type OrganizationDetailDTO struct {
	OrganizationDTO
	Members  []OrganizationMemberDTO `json:"members"`
	YourRole models.OrganizationRole `json:"your_role"`
}

// HierarchyDTO describes where an organization sits in its tree
type HierarchyDTO struct {
	OrganizationID       uint64   `json:"organization_id"`
	ParentOrganizationID *uint64  `json:"parent_organization_id"`
	Depth                int      `json:"depth"`
	SubtreeDepth         int      `json:"subtree_depth"`
	MaxDepth             int      `json:"max_depth"`
	ChildIDs             []uint64 `json:"child_ids"`
}

// DescendantsDTO lists the organizations below an organization
type DescendantsDTO struct {
	OrganizationID uint64   `json:"organization_id"`
	DescendantIDs  []uint64 `json:"descendant_ids"`
	Truncated      bool     `json:"truncated"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToOrganizationDTO converts an organization to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:                   org.ID,
		Name:                 org.Name,
		ParentOrganizationID: org.ParentOrganizationID,
		CreatedAt:            org.CreatedAt,
		UpdatedAt:            org.UpdatedAt,
	}
}

// ToOrganizationWithRoleDTO converts an organization member to DTO with role
func ToOrganizationWithRoleDTO(member models.OrganizationMember) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization),
		Role:            member.Role,
	}
}

// ToOrganizationListResponse converts a page of memberships to the list response
func ToOrganizationListResponse(memberships []models.OrganizationMember, page utils.PaginationResponse) OrganizationListResponse {
	orgs := make([]OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		orgs[i] = ToOrganizationWithRoleDTO(m)
	}
	return OrganizationListResponse{
		Organizations:      orgs,
		PaginationResponse: page,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToOrganizationDetailDTO converts organization with members to detailed DTO
func ToOrganizationDetailDTO(org models.Organization, members []models.OrganizationMember, yourRole models.OrganizationRole) OrganizationDetailDTO {
	memberDTOs := make([]OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToOrganizationMemberDTO(member)
	}

	return OrganizationDetailDTO{
		OrganizationDTO: ToOrganizationDTO(org),
		Members:         memberDTOs,
		YourRole:        yourRole,
	}
}

// ToHierarchyDTO converts hierarchy info to DTO
func ToHierarchyDTO(info services.HierarchyInfo, maxDepth int) HierarchyDTO {
	children := info.ChildIDs
	if children == nil {
		children = []uint64{}
	}
	return HierarchyDTO{
		OrganizationID:       info.OrganizationID,
		ParentOrganizationID: info.ParentOrganizationID,
		Depth:                info.Depth,
		SubtreeDepth:         info.SubtreeDepth,
		MaxDepth:             maxDepth,
		ChildIDs:             children,
	}
}
