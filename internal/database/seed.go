package database

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/pageza/foodflow/backend/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed badges.yaml
var badgeCatalog []byte

type badgeFile struct {
	Badges []models.Badge `yaml:"badges"`
}

// BadgeCatalog returns the built-in badge definitions.
func BadgeCatalog() ([]models.Badge, error) {
	var f badgeFile
	if err := yaml.Unmarshal(badgeCatalog, &f); err != nil {
		return nil, fmt.Errorf("failed to parse badge catalog: %w", err)
	}
	for i := range f.Badges {
		if f.Badges[i].Category == "" {
			f.Badges[i].Category = "general"
		}
	}
	return f.Badges, nil
}

// SeedBadges upserts the badge catalog by name and returns the number of badges written.
func SeedBadges(db *gorm.DB) (int, error) {
	badges, err := BadgeCatalog()
	if err != nil {
		return 0, err
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "icon", "points_required", "condition", "category"}),
	}).Create(&badges).Error
	if err != nil {
		return 0, fmt.Errorf("failed to seed badges: %w", err)
	}

	log.Printf("[Database] seeded %d badges", len(badges))
	return len(badges), nil
}
