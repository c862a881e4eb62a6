package service

import (
	"errors"

	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
)

const defaultAddQuantity = 1

type CartService interface {
	GetCart(userID uint) (*CartView, error)
	AddItem(userID uint, productID *uint, quantity *int) (*CartView, error)
	UpdateItemQuantity(userID, itemID uint, quantity *int) (*CartView, error)
	RemoveItem(userID, itemID uint) (*CartView, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return NewCartView(cart), nil
}

// AddItem adds quantity (default 1, raised to 1 when lower) of a product,
// merging with an existing line.
func (s *cartService) AddItem(userID uint, productID *uint, quantity *int) (*CartView, error) {
	if productID == nil || *productID == 0 {
		return nil, ErrProductRequired
	}
	qty := defaultAddQuantity
	if quantity != nil {
		qty = *quantity
	}
	if qty < 1 {
		qty = 1
	}

	exists, err := s.productRepo.Exists(*productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
			"user_id":    userID,
			"product_id": *productID,
		})
		return nil, ErrUnknownProduct
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddQuantity(cart.ID, *productID, qty)
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": *productID,
		})
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	return s.GetCart(userID)
}

// UpdateItemQuantity sets a line's quantity. A nil quantity leaves the line
// unchanged and anything below 1 is raised to 1.
func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity *int) (*CartView, error) {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity != nil {
		qty := *quantity
		if qty < 1 {
			qty = 1
		}
		if err := s.cartRepo.UpdateItemQuantity(item.ID, qty); err != nil {
			return nil, err
		}
		logger.Info("Cart item quantity updated", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"quantity":     qty,
		})
	}

	return s.GetCart(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*CartView, error) {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})
	return s.GetCart(userID)
}

func (s *cartService) findOwnedItem(userID, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindItemForUser(itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found in user's cart", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": itemID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}
