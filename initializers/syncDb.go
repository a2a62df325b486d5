package initializers

import (
	"log"

	"github.com/eidbazar/eidbazar-api/models"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.PromoCode{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return err
	}
	log.Println("Database synced successfully.")
	return nil
}
