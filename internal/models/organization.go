package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID                   uint64         `gorm:"primarykey" json:"id"`
	Name                 string         `gorm:"type:varchar(255);not null" json:"name"`
	ParentOrganizationID *uint64        `gorm:"index" json:"parent_organization_id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Parent   *Organization        `gorm:"foreignKey:ParentOrganizationID" json:"-"`
	Children []Organization       `gorm:"foreignKey:ParentOrganizationID" json:"-"`
	Members  []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
}

// IsRoot reports whether the organization sits at the top of its tree.
func (o *Organization) IsRoot() bool {
	return o.ParentOrganizationID == nil
}
