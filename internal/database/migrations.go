package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// indexes beyond the ones gorm derives from struct tags.
var indexes = []index{
	// FetchChildren filters on parent and the soft-delete column together.
	{"organizations", "idx_organizations_parent_deleted", "parent_organization_id, deleted_at"},

	// Organization members indexes
	{"organization_members", "idx_org_members_user_id", "user_id"},
}

// AddIndexes creates the hierarchy read indexes if they do not exist yet.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logrus.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   idx.table,
			"columns": idx.columns,
		}).Info("Created index")
	}

	return nil
}
