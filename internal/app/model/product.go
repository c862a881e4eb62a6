package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Manufacturer is a paint brand. Deleting one detaches its products.
type Manufacturer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	LogoURL     string    `json:"logo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:ManufacturerID" json:"-"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}

type Product struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Name           string          `gorm:"not null;size:200" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock          int             `gorm:"not null;default:0" json:"stock"`
	Category       string          `gorm:"size:100;index" json:"category"` // e.g. enamel, primer, varnish
	ManufacturerID *uint           `gorm:"index" json:"manufacturer_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Manufacturer *Manufacturer  `gorm:"foreignKey:ManufacturerID;constraint:OnDelete:SET NULL" json:"manufacturer,omitempty"`
	Images       []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Key       string    `gorm:"not null" json:"key"`
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
