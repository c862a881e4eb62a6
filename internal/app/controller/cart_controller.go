package controller

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/middleware"
)

type CartController struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
}

func NewCartController(cartService service.CartService, checkoutService service.CheckoutService) *CartController {
	return &CartController{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

type AddItemRequest struct {
	ProductID *uint `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// CheckoutRequest carries optional contact overrides; empty fields fall
// back to the profile.
type CheckoutRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Telegram string `json:"telegram"`
	Comment  string `json:"comment"`
}

type CheckoutResponse struct {
	Message     string                  `json:"message"`
	OrderNumber string                  `json:"order_number"`
	TotalPrice  string                  `json:"total_price"`
	Channels    []service.ChannelResult `json:"channels"`
}

// GetCart returns the caller's cart, creating it on first access
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(identity.UserID)
	if err != nil {
		respondServiceError(c, err, "get cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem adds a product or increments its quantity
// POST /api/v1/cart/add-item
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.cartService.AddItem(identity.UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "add cart item")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    identity.UserID,
		"product_id": req.ProductID,
	})
	c.JSON(http.StatusOK, cart)
}

// UpdateItem sets the quantity of a line in the caller's cart
// PATCH /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.cartService.UpdateItemQuantity(identity.UserID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "update cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem deletes a line from the caller's cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(identity.UserID, itemID)
	if err != nil {
		respondServiceError(c, err, "delete cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Checkout places the order and reports per-channel delivery
// POST /api/v1/cart/checkout
func (ctrl *CartController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	outcome, err := ctrl.checkoutService.Checkout(c.Request.Context(), identity.UserID, service.ContactOverrides{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Telegram: req.Telegram,
		Comment:  req.Comment,
	})
	if err != nil {
		respondServiceError(c, err, "checkout")
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"user_id":      identity.UserID,
		"order_number": outcome.OrderNumber,
		"delivered":    outcome.Delivered(),
	})
	c.JSON(http.StatusOK, CheckoutResponse{
		Message:     outcome.Message,
		OrderNumber: outcome.OrderNumber,
		TotalPrice:  service.Money(outcome.TotalPrice),
		Channels:    outcome.Channels,
	})
}
