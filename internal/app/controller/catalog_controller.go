package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

type ProductRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Stock          *int             `json:"stock"`
	Category       *string          `json:"category"`
	ManufacturerID *uint            `json:"manufacturer_id"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		Stock:          r.Stock,
		Category:       r.Category,
		ManufacturerID: r.ManufacturerID,
	}
}

type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

type ManufacturerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

type ManufacturerResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

func newManufacturerResponse(m *model.Manufacturer) ManufacturerResponse {
	return ManufacturerResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
	}
}

// CreateProduct adds a product to the catalog
// POST /api/v1/products
func (ctrl *CatalogController) CreateProduct(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.catalogService.CreateProduct(identity, req.input())
	if err != nil {
		respondServiceError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, service.NewProductView(product))
}

// UpdateProduct changes the given fields of a product
// PATCH /api/v1/products/:id
func (ctrl *CatalogController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.catalogService.UpdateProduct(identity, id, req.input())
	if err != nil {
		respondServiceError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, service.NewProductView(product))
}

// DeleteProduct removes a product with its images, cart lines and reviews
// DELETE /api/v1/products/:id
func (ctrl *CatalogController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := ctrl.catalogService.DeleteProduct(identity, id); err != nil {
		respondServiceError(c, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateImageUpload issues a presigned URL for a new product image
// POST /api/v1/products/:id/images
func (ctrl *CatalogController) CreateImageUpload(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	upload, err := ctrl.catalogService.CreateProductImageUpload(c.Request.Context(), identity, id, req.ContentType)
	if err != nil {
		respondServiceError(c, err, "create product image")
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// CreateManufacturer adds a manufacturer
// POST /api/v1/manufacturers
func (ctrl *CatalogController) CreateManufacturer(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req ManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	manufacturer, err := ctrl.catalogService.CreateManufacturer(identity, service.ManufacturerInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		respondServiceError(c, err, "create manufacturer")
		return
	}
	c.JSON(http.StatusCreated, newManufacturerResponse(manufacturer))
}

// DeleteManufacturer removes a manufacturer and detaches its products
// DELETE /api/v1/manufacturers/:id
func (ctrl *CatalogController) DeleteManufacturer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := ctrl.catalogService.DeleteManufacturer(identity, id); err != nil {
		respondServiceError(c, err, "delete manufacturer")
		return
	}
	c.Status(http.StatusNoContent)
}
