package database

import "gorm.io/gorm"

// Paginate applies an offset/limit window to a GORM query
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// ActiveOrganizations restricts a query on organization_members to rows whose
// organization has not been soft deleted
func ActiveOrganizations(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN organizations ON organizations.id = organization_members.organization_id AND organizations.deleted_at IS NULL")
}
