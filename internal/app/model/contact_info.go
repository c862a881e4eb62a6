package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContactInfoID is the only primary key the contact_info table may hold.
const ContactInfoID uint = 1

type ContactInfo struct {
	ID           uint            `gorm:"primarykey" json:"-"`
	Address      string          `gorm:"size:255" json:"address"`
	Latitude     decimal.Decimal `gorm:"type:decimal(9,6);not null;default:0" json:"latitude"`
	Longitude    decimal.Decimal `gorm:"type:decimal(9,6);not null;default:0" json:"longitude"`
	Phone        string          `gorm:"size:20" json:"phone"`
	Email        string          `json:"email"`
	WhatsApp     string          `gorm:"size:20" json:"whatsapp"`
	Telegram     string          `gorm:"size:50" json:"telegram"`
	WorkingHours string          `gorm:"type:text" json:"working_hours"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ContactInfo) TableName() string {
	return "contact_info"
}

func (c *ContactInfo) BeforeSave(tx *gorm.DB) error {
	c.ID = ContactInfoID
	return nil
}
