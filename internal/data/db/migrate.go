package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cownect/cownect-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// EnsureResultIndexes adds the history index AutoMigrate cannot express.
func EnsureResultIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quiz_result_user_created
		ON quiz_result(user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_quiz_result_user_created: %w", err)
	}
	return nil
}
