package repository

import (
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
)

type ManufacturerRepository interface {
	Create(manufacturer *model.Manufacturer) error
	FindByID(id uint) (*model.Manufacturer, error)
	FindByName(name string) (*model.Manufacturer, error)
	Delete(id uint) error
}

type manufacturerRepository struct {
	db *gorm.DB
}

func NewManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &manufacturerRepository{db: db}
}

func (r *manufacturerRepository) Create(manufacturer *model.Manufacturer) error {
	logger.Debug("Creating manufacturer in database", map[string]interface{}{
		"name": manufacturer.Name,
	})

	if err := r.db.Create(manufacturer).Error; err != nil {
		logger.Error("Failed to create manufacturer in database", err, map[string]interface{}{
			"name": manufacturer.Name,
		})
		return err
	}
	return nil
}

func (r *manufacturerRepository) FindByID(id uint) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	if err := r.db.First(&manufacturer, id).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *manufacturerRepository) FindByName(name string) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	if err := r.db.Where("name = ?", name).First(&manufacturer).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

// Delete detaches the manufacturer's products and removes it atomically.
func (r *manufacturerRepository) Delete(id uint) error {
	logger.Debug("Deleting manufacturer from database", map[string]interface{}{
		"manufacturer_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("manufacturer_id = ?", id).
			Update("manufacturer_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Manufacturer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete manufacturer", err, map[string]interface{}{
			"manufacturer_id": id,
		})
		return err
	}
	return nil
}
