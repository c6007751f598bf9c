package boot

import (
	"log"

	"portal/src/db"
	"portal/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Customer{},
		&models.ClientRequest{},
		&models.PortalMessage{},
		&models.Document{},
		&models.Invoice{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	// The single-active-request constraint is a partial unique index,
	// which AutoMigrate cannot express. A mismatched schema is fatal
	// here; the pipeline never repairs schema at runtime.
	if err := db.Exec(`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_client_requests_one_active
	ON client_requests (team_id, customer_id)
	WHERE active
	`).Error; err != nil {
		log.Fatalf("error creating active request index: %s", err.Error())
	}

	return db
}
