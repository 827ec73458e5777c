package database

import "promptvault/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Prompt{},
		&models.Favorite{},
		&models.PromptRating{},
		&models.PromptInteraction{},
		&models.Feedback{},
		&models.SystemSetting{},
	}
}
