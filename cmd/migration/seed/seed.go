package seed

import (
	"attendtrack/config"
	"attendtrack/internal/logger"
	"errors"

	. "attendtrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed creates the administrator account described by config unless an
// identity with that username already exists. It reports whether it created one.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) (bool, error) {
	log = log.Function("seed")

	if config.SeedAdminLogin == "" || config.SeedAdminPassword == "" {
		return false, log.ErrMsg("seed admin login and password are required")
	}

	var existing Identity
	err := db.First(&existing, "username = ?", config.SeedAdminLogin).Error
	if err == nil {
		log.Info("Admin already exists", "username", existing.Username, "id", existing.ID)
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, log.Err("failed to look up admin", err, "username", config.SeedAdminLogin)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, log.Err("failed to hash admin password", err)
	}

	admin := Identity{
		Username:     config.SeedAdminLogin,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		DisplayName:  stringPtr(config.SeedAdminName),
		Origin:       OriginProvisioned,
		IsActive:     true,
	}

	log.Info("Seeding admin", "username", admin.Username)
	if err := db.Create(&admin).Error; err != nil {
		return false, log.Err("failed to create admin", err, "username", admin.Username)
	}

	return true, nil
}
