package database

import "reclaim/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Item{},
		&models.User{},
		&models.Claim{},
	}
}
