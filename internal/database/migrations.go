package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns string
}

// Secondary indexes for listing and stats queries, created once per dialect.
var listingIndexes = []indexSpec{
	{"projects", "idx_projects_status_created_at", "status, created_at"},
	{"bids", "idx_bids_project_status", "project_id, status"},
	{"bids", "idx_bids_freelancer_status", "freelancer_id, status"},
	{"reviews", "idx_reviews_reviewee_public", "reviewee_id, is_public"},
}

// AddIndexes adds the listing indexes and the full-text index used by project search.
func AddIndexes(db *gorm.DB) error {
	for _, idx := range listingIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return addSearchIndex(db)
}

func addSearchIndex(db *gorm.DB) error {
	const name = "idx_projects_fulltext"

	var sql string
	switch db.Dialector.Name() {
	case "mysql":
		sql = "CREATE FULLTEXT INDEX " + name + " ON projects (title, description)"
	case "postgres":
		sql = "CREATE INDEX " + name + " ON projects USING GIN (to_tsvector('simple', title || ' ' || description))"
	default:
		// LIKE fallback needs no index
		return nil
	}

	if db.Migrator().HasIndex("projects", name) {
		return nil
	}
	if err := db.Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	log.Printf("Created full-text index %s", name)
	return nil
}
