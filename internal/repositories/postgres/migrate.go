package postgres

import (
	"github.com/recrutai/platform/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the relational schema, including the unique
// index that backs the application upsert.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Candidate{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
	)
}
