package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/authz"
	"gorm.io/gorm"
)

type cartFixture struct {
	router   *gin.Engine
	db       *gorm.DB
	identity *authz.Identity
	chat     *stubChat
	email    *stubEmail
}

func setupCartControllerTest(t *testing.T, chat *stubChat, email *stubEmail) *cartFixture {
	router, testDB := setupControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	contacts := service.NewContactService(repository.NewContactRepository(testDB), nil, 0)
	checkout := service.NewCheckoutService(
		repository.NewUserRepository(testDB),
		cartRepo,
		contacts,
		chat,
		email,
		service.CheckoutConfig{ChatID: "-1", FromEmail: "shop@example.com", ChannelTimeout: time.Second},
	)
	controller := NewCartController(service.NewCartService(cartRepo, productRepo), checkout)

	_, identity := createTestUser(t, testDB, "ivan", false)

	router.GET("/cart", as(identity, controller.GetCart))
	router.POST("/cart/add-item", as(identity, controller.AddItem))
	router.PATCH("/cart/items/:id", as(identity, controller.UpdateItem))
	router.DELETE("/cart/items/:id", as(identity, controller.RemoveItem))
	router.POST("/cart/checkout", as(identity, controller.Checkout))
	router.GET("/anonymous/cart", controller.GetCart)

	return &cartFixture{router: router, db: testDB, identity: identity, chat: chat, email: email}
}

func TestCartController_GetCart_Empty(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})

	w := doJSON(f.router, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, float64(f.identity.UserID), response["user"])
	assert.Equal(t, "0.00", response["total_price"])
	assert.Empty(t, response["items"])
}

func TestCartController_RequiresAuthentication(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})

	w := doJSON(f.router, http.MethodGet, "/anonymous/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartController_AddItem(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})
	product := createTestProduct(t, f.db, "Enamel", "100.00")

	w := doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": product.ID})
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	items := response["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(3), item["quantity"])
	assert.Equal(t, "300.00", item["total_price"])
	assert.Equal(t, "300.00", response["total_price"])
	assert.Equal(t, "100.00", item["product"].(map[string]interface{})["price"])
}

func TestCartController_AddItem_ZeroQuantityAddsOne(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})
	product := createTestProduct(t, f.db, "Enamel", "100.00")

	w := doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": product.ID, "quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(1), items[0].(map[string]interface{})["quantity"])
}

func TestCartController_AddItem_Invalid(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})

	tests := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{name: "Missing product", body: gin.H{"quantity": 1}, wantCode: "VALIDATION_REQUIRED"},
		{name: "Unknown product", body: gin.H{"product_id": 9999}, wantCode: "VALIDATION_INVALID_INPUT"},
		{name: "Wrong type", body: gin.H{"product_id": "abc"}, wantCode: "VALIDATION_INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(f.router, http.MethodPost, "/cart/add-item", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w)["error"])
		})
	}
}

func TestCartController_UpdateAndRemoveItem(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})
	product := createTestProduct(t, f.db, "Enamel", "10.00")

	w := doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": product.ID, "quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	itemID := decode(t, w)["items"].([]interface{})[0].(map[string]interface{})["id"]
	path := fmt.Sprintf("/cart/items/%v", itemID)

	w = doJSON(f.router, http.MethodPatch, path, gin.H{"quantity": -3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.00", decode(t, w)["total_price"])

	w = doJSON(f.router, http.MethodPatch, path, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.00", decode(t, w)["total_price"])

	w = doJSON(f.router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])

	w = doJSON(f.router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", decode(t, w)["error"])

	w = doJSON(f.router, http.MethodPatch, "/cart/items/abc", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_ID", decode(t, w)["error"])
}

func TestCartController_UpdateForeignItem(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{}, &stubEmail{})
	product := createTestProduct(t, f.db, "Enamel", "10.00")

	other, _ := createTestUser(t, f.db, "olga", false)
	otherCart, err := repository.NewCartRepository(f.db).GetOrCreate(other.ID)
	require.NoError(t, err)
	item, err := repository.NewCartRepository(f.db).AddQuantity(otherCart.ID, product.ID, 1)
	require.NoError(t, err)

	w := doJSON(f.router, http.MethodPatch, fmt.Sprintf("/cart/items/%d", item.ID), gin.H{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_Checkout(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{configured: false}, &stubEmail{configured: true})
	a := createTestProduct(t, f.db, "A", "100.00")
	b := createTestProduct(t, f.db, "B", "50.00")

	require.Equal(t, http.StatusOK, doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": a.ID, "quantity": 2}).Code)
	require.Equal(t, http.StatusOK, doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": b.ID, "quantity": 1}).Code)

	w := doJSON(f.router, http.MethodPost, "/cart/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, "250.00", response["total_price"])
	assert.NotEmpty(t, response["order_number"])
	assert.Contains(t, response["message"], "email: sent")

	channels := map[string]string{}
	for _, raw := range response["channels"].([]interface{}) {
		ch := raw.(map[string]interface{})
		channels[ch["channel"].(string)] = ch["status"].(string)
	}
	assert.Equal(t, "not_configured", channels["telegram"])
	assert.Equal(t, "sent", channels["email"])
	require.Len(t, f.email.bodies, 1)

	w = doJSON(f.router, http.MethodGet, "/cart", nil)
	assert.Empty(t, decode(t, w)["items"])
}

func TestCartController_Checkout_EmptyCart(t *testing.T) {
	f := setupCartControllerTest(t, &stubChat{configured: true}, &stubEmail{configured: true})

	w := doJSON(f.router, http.MethodPost, "/cart/checkout", gin.H{"comment": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CART_EMPTY", decode(t, w)["error"])
	assert.Empty(t, f.chat.texts)
	assert.Empty(t, f.email.bodies)
}

func TestCartController_Checkout_ChannelFailureStillSucceeds(t *testing.T) {
	f := setupCartControllerTest(t,
		&stubChat{configured: true, err: errors.New("bad gateway")},
		&stubEmail{configured: true, err: errors.New("mailbox unavailable")},
	)
	product := createTestProduct(t, f.db, "Enamel", "10.00")
	require.Equal(t, http.StatusOK, doJSON(f.router, http.MethodPost, "/cart/add-item", gin.H{"product_id": product.ID}).Code)

	w := doJSON(f.router, http.MethodPost, "/cart/checkout", gin.H{"phone": "+7 999"})
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	for _, raw := range response["channels"].([]interface{}) {
		ch := raw.(map[string]interface{})
		assert.Equal(t, "failed", ch["status"])
		assert.NotEmpty(t, ch["error"])
	}
	require.Len(t, f.chat.texts, 1)
	assert.Contains(t, f.chat.texts[0], "Phone: +7 999")
}
