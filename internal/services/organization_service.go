package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yukikurage/org-hierarchy-api/internal/hierarchy"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
	"github.com/yukikurage/org-hierarchy-api/internal/models"
	"github.com/yukikurage/org-hierarchy-api/internal/repository"
)

var (
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrParentOrganizationNotFound = errors.New("parent organization not found")
	ErrParentAccessDenied         = errors.New("only owners of the parent organization can attach organizations to it")
	ErrInvalidOrganizationName    = errors.New("organization name cannot be empty")
	ErrSubtreeTooLarge            = errors.New("organization has too many descendants to delete at once")
)

// OrganizationService provides business logic for organization operations.
// Every change to a parent pointer goes through hierarchy.Validator inside
// the same transaction as the write.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name                 string
	OwnerID              uint64
	ParentOrganizationID *uint64
}

// ReparentInput represents a request to move an organization. A nil
// NewParentID detaches the organization and makes it a root.
type ReparentInput struct {
	OrganizationID uint64
	ActorID        uint64
	NewParentID    *uint64
}

// HierarchyInfo describes where an organization sits in its tree.
type HierarchyInfo struct {
	OrganizationID       uint64
	ParentOrganizationID *uint64
	Depth                int
	SubtreeDepth         int
	ChildIDs             []uint64
}

// CreateOrganization creates a new organization, optionally under a parent,
// and assigns the owner.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidOrganizationName
	}

	org := &models.Organization{
		Name:                 name,
		ParentOrganizationID: input.ParentOrganizationID,
	}

	err := s.orgRepo.WithinTransaction(ctx, func(repo repository.OrganizationRepository) error {
		if input.ParentOrganizationID != nil {
			parentID := *input.ParentOrganizationID
			if err := s.checkParentAccess(ctx, repo, parentID, input.OwnerID); err != nil {
				return err
			}
			if err := hierarchy.NewValidator(repo).ValidateNewChild(ctx, parentID); err != nil {
				return err
			}
		}

		if err := repo.Create(ctx, org); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		member := &models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         input.OwnerID,
			Role:           models.RoleOwner,
			JoinedAt:       time.Now(),
		}
		if err := repo.AddMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add owner to organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.WithFields(ctx, logrus.Fields{
		"organization_id": org.ID,
		"parent_id":       optionalID(org.ParentOrganizationID),
		"owner_id":        input.OwnerID,
	}).Info("org.created")
	return org, nil
}

// ListOrganizationsForUser returns a page of the organizations the user belongs to.
func (s *OrganizationService) ListOrganizationsForUser(ctx context.Context, userID uint64, offset, limit int) ([]models.OrganizationMember, int64, error) {
	memberships, total, err := s.orgRepo.ListMembersByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, total, nil
}

// GetOrganizationWithMembers returns an organization and all of its members.
func (s *OrganizationService) GetOrganizationWithMembers(ctx context.Context, orgID uint64) (*models.Organization, []models.OrganizationMember, error) {
	org, err := s.findOrganization(ctx, s.orgRepo, orgID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.orgRepo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	return org, members, nil
}

// UpdateOrganizationName updates an organization's name.
func (s *OrganizationService) UpdateOrganizationName(ctx context.Context, orgID uint64, name string) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidOrganizationName
	}

	org, err := s.findOrganization(ctx, s.orgRepo, orgID)
	if err != nil {
		return nil, err
	}

	org.Name = name
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// ReparentOrganization moves an organization under a new parent, or makes it
// a root when NewParentID is nil. Validation and the write share one
// transaction, so no concurrent move can slip in between them.
func (s *OrganizationService) ReparentOrganization(ctx context.Context, input ReparentInput) (*models.Organization, error) {
	var org *models.Organization

	err := s.orgRepo.WithinTransaction(ctx, func(repo repository.OrganizationRepository) error {
		var err error
		org, err = s.findOrganization(ctx, repo, input.OrganizationID)
		if err != nil {
			return err
		}

		if input.NewParentID != nil {
			newParentID := *input.NewParentID
			if err := s.checkParentAccess(ctx, repo, newParentID, input.ActorID); err != nil {
				return err
			}
			if err := hierarchy.NewValidator(repo).ValidateHierarchy(ctx, org.ID, newParentID); err != nil {
				return err
			}
		}

		if err := repo.UpdateParent(ctx, org.ID, input.NewParentID); err != nil {
			return fmt.Errorf("failed to update parent organization: %w", err)
		}
		org.ParentOrganizationID = input.NewParentID
		return nil
	})
	if err != nil {
		var verr *hierarchy.ValidationError
		if errors.As(err, &verr) {
			logging.WithFields(ctx, logrus.Fields{
				"organization_id": input.OrganizationID,
				"new_parent_id":   verr.NewParentID,
				"actor_id":        input.ActorID,
				"error":           verr.Error(),
			}).Warn("org.hierarchy.reparent_rejected")
		}
		return nil, err
	}

	logging.WithFields(ctx, logrus.Fields{
		"organization_id": org.ID,
		"new_parent_id":   optionalID(input.NewParentID),
		"actor_id":        input.ActorID,
	}).Info("org.hierarchy.reparented")
	return org, nil
}

// GetHierarchyInfo reports depth, subtree depth and direct children.
func (s *OrganizationService) GetHierarchyInfo(ctx context.Context, orgID uint64) (*HierarchyInfo, error) {
	org, err := s.findOrganization(ctx, s.orgRepo, orgID)
	if err != nil {
		return nil, err
	}

	depth, err := hierarchy.Depth(ctx, s.orgRepo, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to measure depth: %w", err)
	}
	subtree, err := hierarchy.SubtreeDepth(ctx, s.orgRepo, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to measure subtree depth: %w", err)
	}
	children, err := s.orgRepo.FetchChildren(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child organizations: %w", err)
	}

	return &HierarchyInfo{
		OrganizationID:       org.ID,
		ParentOrganizationID: org.ParentOrganizationID,
		Depth:                depth,
		SubtreeDepth:         subtree,
		ChildIDs:             children,
	}, nil
}

// ListDescendants returns the ids below an organization. truncated is true
// when the enumeration stopped at hierarchy.MaxDescendants.
func (s *OrganizationService) ListDescendants(ctx context.Context, orgID uint64) (ids []uint64, truncated bool, err error) {
	if _, err := s.findOrganization(ctx, s.orgRepo, orgID); err != nil {
		return nil, false, err
	}

	ids, err = hierarchy.DescendantOrgIDs(ctx, s.orgRepo, orgID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list descendants: %w", err)
	}
	return ids, hierarchy.Truncated(ids), nil
}

// DeleteOrganization soft deletes an organization together with everything
// below it. Trees whose descendant enumeration hits the cap are refused
// rather than partially deleted.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, orgID uint64) error {
	var removed int

	err := s.orgRepo.WithinTransaction(ctx, func(repo repository.OrganizationRepository) error {
		if _, err := s.findOrganization(ctx, repo, orgID); err != nil {
			return err
		}

		descendants, err := hierarchy.DescendantOrgIDs(ctx, repo, orgID)
		if err != nil {
			return fmt.Errorf("failed to list descendants: %w", err)
		}
		if hierarchy.Truncated(descendants) {
			return ErrSubtreeTooLarge
		}

		ids := append([]uint64{orgID}, descendants...)
		if err := repo.DeleteTree(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete organization: %w", err)
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return err
	}

	logging.WithFields(ctx, logrus.Fields{
		"organization_id": orgID,
		"removed":         removed,
	}).Info("org.deleted")
	return nil
}

func (s *OrganizationService) findOrganization(ctx context.Context, repo repository.OrganizationRepository, orgID uint64) (*models.Organization, error) {
	org, err := repo.FindByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

func (s *OrganizationService) checkParentAccess(ctx context.Context, repo repository.OrganizationRepository, parentID, actorID uint64) error {
	if _, err := repo.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentOrganizationNotFound
		}
		return fmt.Errorf("failed to find parent organization: %w", err)
	}

	member, err := repo.FindMember(ctx, parentID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentAccessDenied
		}
		return fmt.Errorf("failed to verify parent membership: %w", err)
	}
	if !member.IsOwner() {
		return ErrParentAccessDenied
	}
	return nil
}

// optionalID renders a nullable id for log fields.
func optionalID(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
