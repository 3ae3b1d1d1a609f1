package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/yukikurage/org-hierarchy-api/internal/database"
	"github.com/yukikurage/org-hierarchy-api/internal/hierarchy"
	"github.com/yukikurage/org-hierarchy-api/internal/models"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
	// snapshotTx configures the read transaction used by hierarchy walks.
	snapshotTx *sql.TxOptions
}

// Option configures a GormOrganizationRepository.
type Option func(*GormOrganizationRepository)

// WithSnapshotReads makes hierarchy walks run in a read-only repeatable-read
// transaction. Leave it off for SQLite, which rejects isolation levels.
func WithSnapshotReads() Option {
	return func(r *GormOrganizationRepository) {
		r.snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB, opts ...Option) OrganizationRepository {
	r := &GormOrganizationRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *GormOrganizationRepository) withDB(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db, snapshotTx: r.snapshotTx}
}

// FetchParent loads the parent pointer of an organization. Unknown and
// soft-deleted ids yield (nil, nil).
func (r *GormOrganizationRepository) FetchParent(ctx context.Context, id uint64) (*hierarchy.Node, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Select("id", "parent_organization_id").
		Where("id = ?", id).
		Take(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hierarchy.Node{ID: org.ID, ParentOrganizationID: org.ParentOrganizationID}, nil
}

// FetchChildren lists the ids of the direct children of an organization
func (r *GormOrganizationRepository) FetchChildren(ctx context.Context, id uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if err := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("parent_organization_id = ?", id).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Transaction runs fn against one read snapshot. Inside an enclosing
// transaction this becomes a savepoint of it.
func (r *GormOrganizationRepository) Transaction(ctx context.Context, fn func(tx hierarchy.Store) error) error {
	run := func(tx *gorm.DB) error {
		return fn(r.withDB(tx))
	}
	if r.snapshotTx != nil && !r.inTransaction() {
		return r.db.WithContext(ctx).Transaction(run, r.snapshotTx)
	}
	return r.db.WithContext(ctx).Transaction(run)
}

// WithinTransaction runs fn with a repository bound to a single transaction
func (r *GormOrganizationRepository) WithinTransaction(ctx context.Context, fn func(repo OrganizationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.withDB(tx))
	})
}

func (r *GormOrganizationRepository) inTransaction() bool {
	committer, ok := r.db.Statement.ConnPool.(gorm.TxCommitter)
	return ok && committer != nil
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// UpdateParent rewrites only the parent pointer of an organization
func (r *GormOrganizationRepository) UpdateParent(ctx context.Context, id uint64, parentID *uint64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ?", id).
		Update("parent_organization_id", parentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTree soft deletes the organizations and removes their members in a transaction
func (r *GormOrganizationRepository) DeleteTree(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id IN ?", ids).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("id IN ?", ids).Delete(&models.Organization{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// AddMember adds a member to an organization
func (r *GormOrganizationRepository) AddMember(ctx context.Context, member *models.OrganizationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(ctx context.Context, organizationID, userID uint64) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists a page of the organizations a user is a member of
func (r *GormOrganizationRepository) ListMembersByUserID(ctx context.Context, userID uint64, offset, limit int) ([]models.OrganizationMember, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).
		Model(&models.OrganizationMember{}).
		Scopes(database.ActiveOrganizations).
		Where("organization_members.user_id = ?", userID).
		Session(&gorm.Session{})
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var memberships []models.OrganizationMember
	if err := base.
		Preload("Organization").
		Order("organization_members.organization_id").
		Scopes(database.Paginate(offset, limit)).
		Find(&memberships).Error; err != nil {
		return nil, 0, err
	}
	return memberships, total, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(ctx context.Context, organizationID uint64) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
