package admin

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/config"
)

// SeedSuperadmin creates the MSWDO account on first boot. An existing
// account is left untouched so later password changes survive restarts.
func SeedSuperadmin(db *gorm.DB, cfg *config.Config) error {
	var existing Superadmin
	err := db.Where("email = ?", cfg.SuperadminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if cfg.SuperadminPassword == "" {
		log.Println("⚠️ SUPERADMIN_PASSWORD not set, skipping superadmin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperadminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := db.Create(&Superadmin{
		Name:     cfg.SuperadminName,
		Email:    cfg.SuperadminEmail,
		Password: string(hashed),
	}).Error; err != nil {
		return err
	}
	log.Printf("✅ Superadmin account seeded (%s)", cfg.SuperadminEmail)
	return nil
}
