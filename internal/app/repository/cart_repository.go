package repository

import (
	"time"

	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	GetOrCreate(userID uint) (*model.Cart, error)
	AddQuantity(cartID, productID uint, quantity int) (*model.CartItem, error)
	FindItemForUser(itemID, userID uint) (*model.CartItem, error)
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	TakeItems(cartID uint) ([]model.CartItem, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreate returns the user's cart with items and products loaded.
// Concurrent first calls race on the unique user_id index; the loser's
// insert is a no-op and both read the same row.
func (r *cartRepository) GetOrCreate(userID uint) (*model.Cart, error) {
	logger.Debug("Getting or creating cart in database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.Cart{UserID: userID}).Error
	if err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var cart model.Cart
	err = r.db.Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		logger.Error("Failed to load cart from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart loaded from database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"items":   len(cart.Items),
	})
	return &cart, nil
}

// AddQuantity inserts a line or increments the existing one in a single statement.
func (r *cartRepository) AddQuantity(cartID, productID uint, quantity int) (*model.CartItem, error) {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	item := model.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	err := r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}

	var stored model.CartItem
	err = r.db.Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}

	logger.Debug("Cart item upserted in database", map[string]interface{}{
		"cart_item_id": stored.ID,
		"quantity":     stored.Quantity,
	})
	return &stored, nil
}

// FindItemForUser only matches items inside the given user's cart.
func (r *cartRepository) FindItemForUser(itemID, userID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		Preload("Product").
		First(&item).Error
	if err != nil {
		logger.Debug("Cart item not found for user", map[string]interface{}{
			"cart_item_id": itemID,
			"user_id":      userID,
		})
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	logger.Debug("Updating cart item quantity in database", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	err := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
	if err != nil {
		logger.Error("Failed to update cart item quantity", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(itemID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": itemID,
	})

	if err := r.db.Delete(&model.CartItem{}, itemID).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

// TakeItems reads the cart's lines with their products and deletes exactly
// those rows in one transaction. Lines added concurrently survive.
func (r *cartRepository) TakeItems(cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).
			Preload("Product").
			Order("id ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		ids := make([]uint, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		return tx.Where("id IN ?", ids).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		logger.Error("Failed to take cart items", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	logger.Debug("Cart items taken from database", map[string]interface{}{
		"cart_id": cartID,
		"count":   len(items),
	})
	return items, nil
}
