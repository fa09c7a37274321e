package migration

import (
	"gorm.io/gorm"

	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

// Run executes AutoMigrate for the reviews and operators tables.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Review{},
		&domain.Operator{},
	)
}
