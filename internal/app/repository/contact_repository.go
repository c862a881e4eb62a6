package repository

import (
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Get() (*model.ContactInfo, error)
	Save(info *model.ContactInfo) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Get returns the singleton row, creating an empty one when missing.
func (r *contactRepository) Get() (*model.ContactInfo, error) {
	var info model.ContactInfo
	err := r.db.Where(model.ContactInfo{ID: model.ContactInfoID}).
		FirstOrCreate(&info).Error
	if err != nil {
		logger.Error("Failed to load contact info", err)
		return nil, err
	}
	return &info, nil
}

// Save overwrites the singleton row. The key is fixed up front so GORM
// issues an UPDATE instead of inserting a second row.
func (r *contactRepository) Save(info *model.ContactInfo) error {
	info.ID = model.ContactInfoID
	if err := r.db.Save(info).Error; err != nil {
		logger.Error("Failed to save contact info", err)
		return err
	}
	return nil
}
