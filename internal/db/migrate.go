package db

import (
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every table the store owns, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Manufacturer{},
		&model.Product{},
		&model.ProductImage{},
		&model.Cart{},
		&model.CartItem{},
		&model.Review{},
		&model.ContactInfo{},
	}
}

// Migrate runs database migrations against the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates the given connection and makes sure the contact
// info singleton row exists.
func MigrateDB(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := EnsureContactInfo(gdb); err != nil {
		logger.Error("Failed to create contact info row", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// EnsureContactInfo inserts the empty contact info row unless it is already there.
func EnsureContactInfo(gdb *gorm.DB) error {
	return gdb.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ContactInfo{ID: model.ContactInfoID}).Error
}
