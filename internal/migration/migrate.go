package migration

import (
	"github.com/remercado/remercado-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the messaging tables. Tables are created
// when missing and skipped otherwise. The listings table is owned by
// the listing service; it is migrated here too so a fresh development
// database is usable on its own.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Listing{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.UnreadTotal{},
	)
}
