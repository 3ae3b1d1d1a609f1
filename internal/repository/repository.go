package repository

import (
	"context"

	"github.com/yukikurage/org-hierarchy-api/internal/hierarchy"
	"github.com/yukikurage/org-hierarchy-api/internal/models"
)

// OrganizationRepository defines the interface for organization data access.
// It is also the hierarchy.Store the validator reads through.
type OrganizationRepository interface {
	hierarchy.Store

	// Create creates a new organization
	Create(ctx context.Context, org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(ctx context.Context, org *models.Organization) error

	// UpdateParent rewrites only the parent pointer of an organization
	UpdateParent(ctx context.Context, id uint64, parentID *uint64) error

	// DeleteTree soft deletes the given organizations and removes their members
	DeleteTree(ctx context.Context, ids []uint64) error

	// AddMember adds a member to an organization
	AddMember(ctx context.Context, member *models.OrganizationMember) error

	// FindMember finds a specific organization member
	FindMember(ctx context.Context, organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists a page of the organizations a user is a member of
	ListMembersByUserID(ctx context.Context, userID uint64, offset, limit int) ([]models.OrganizationMember, int64, error)

	// ListMembers lists all members of an organization
	ListMembers(ctx context.Context, organizationID uint64) ([]models.OrganizationMember, error)

	// WithinTransaction runs fn with a repository bound to a single transaction
	WithinTransaction(ctx context.Context, fn func(repo OrganizationRepository) error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithPersonalOrganization creates a user, their personal root
	// organization, and the owner membership within a single transaction.
	CreateWithPersonalOrganization(ctx context.Context, user *models.User, org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
