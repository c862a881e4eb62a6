package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/internal/authz"
	"github.com/valeriy167/paint-store/internal/storage"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
)

// ImageStorage issues upload URLs for product images.
type ImageStorage interface {
	PresignProductImage(ctx context.Context, productID uint, contentType string) (*storage.PresignedUpload, error)
}

// ProductInput carries product fields; nil fields are left unchanged on
// update. ManufacturerID 0 detaches the manufacturer.
type ProductInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Stock          *int
	Category       *string
	ManufacturerID *uint
}

type ManufacturerInput struct {
	Name        string
	Description string
	LogoURL     string
}

type ProductImageUpload struct {
	Image  model.ProductImage       `json:"image"`
	Upload *storage.PresignedUpload `json:"upload"`
}

type CatalogService interface {
	CreateProduct(identity *authz.Identity, input ProductInput) (*model.Product, error)
	UpdateProduct(identity *authz.Identity, id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(identity *authz.Identity, id uint) error
	CreateProductImageUpload(ctx context.Context, identity *authz.Identity, productID uint, contentType string) (*ProductImageUpload, error)
	CreateManufacturer(identity *authz.Identity, input ManufacturerInput) (*model.Manufacturer, error)
	DeleteManufacturer(identity *authz.Identity, id uint) error
}

type catalogService struct {
	productRepo      repository.ProductRepository
	manufacturerRepo repository.ManufacturerRepository
	images           ImageStorage
}

// NewCatalogService accepts nil images; uploads then fail with ErrImageStorageDisabled.
func NewCatalogService(
	productRepo repository.ProductRepository,
	manufacturerRepo repository.ManufacturerRepository,
	images ImageStorage,
) CatalogService {
	return &catalogService{
		productRepo:      productRepo,
		manufacturerRepo: manufacturerRepo,
		images:           images,
	}
}

func (s *catalogService) CreateProduct(identity *authz.Identity, input ProductInput) (*model.Product, error) {
	if err := authz.RequireModerator(identity); err != nil {
		return nil, err
	}
	if input.Name == nil {
		return nil, ErrInvalidProductName
	}
	if input.Price == nil {
		return nil, ErrInvalidPrice
	}

	product := &model.Product{}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id":   product.ID,
		"moderator_id": identity.UserID,
	})
	return s.findProduct(product.ID)
}

func (s *catalogService) UpdateProduct(identity *authz.Identity, id uint, input ProductInput) (*model.Product, error) {
	if err := authz.RequireModerator(identity); err != nil {
		return nil, err
	}

	product, err := s.findProduct(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	// associations are reloaded below
	product.Manufacturer = nil
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id":   id,
		"moderator_id": identity.UserID,
	})
	return s.findProduct(id)
}

func (s *catalogService) apply(product *model.Product, input ProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrInvalidProductName
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return ErrInvalidPrice
		}
		product.Price = input.Price.Round(2)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.ManufacturerID != nil {
		if *input.ManufacturerID == 0 {
			product.ManufacturerID = nil
		} else {
			if _, err := s.manufacturerRepo.FindByID(*input.ManufacturerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnknownManufacturer
				}
				return err
			}
			id := *input.ManufacturerID
			product.ManufacturerID = &id
		}
	}
	return nil
}

func (s *catalogService) DeleteProduct(identity *authz.Identity, id uint) error {
	if err := authz.RequireModerator(identity); err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id":   id,
		"moderator_id": identity.UserID,
	})
	return nil
}

// CreateProductImageUpload presigns an upload and records the image at the
// end of the product's gallery.
func (s *catalogService) CreateProductImageUpload(ctx context.Context, identity *authz.Identity, productID uint, contentType string) (*ProductImageUpload, error) {
	if err := authz.RequireModerator(identity); err != nil {
		return nil, err
	}
	if !storage.AllowedImageType(contentType) {
		return nil, ErrUnsupportedImageType
	}
	if s.images == nil {
		return nil, ErrImageStorageDisabled
	}
	if _, err := s.findProduct(productID); err != nil {
		return nil, err
	}

	upload, err := s.images.PresignProductImage(ctx, productID, contentType)
	if err != nil {
		logger.Error("Failed to presign product image upload", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	position, err := s.productRepo.CountImages(productID)
	if err != nil {
		return nil, err
	}
	image := model.ProductImage{
		ProductID: productID,
		Key:       upload.Key,
		URL:       upload.FileURL,
		Position:  int(position),
	}
	if err := s.productRepo.AddImage(&image); err != nil {
		return nil, err
	}

	logger.Info("Product image upload issued", map[string]interface{}{
		"product_id": productID,
		"key":        upload.Key,
	})
	return &ProductImageUpload{Image: image, Upload: upload}, nil
}

func (s *catalogService) CreateManufacturer(identity *authz.Identity, input ManufacturerInput) (*model.Manufacturer, error) {
	if err := authz.RequireModerator(identity); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProductName
	}

	if _, err := s.manufacturerRepo.FindByName(name); err == nil {
		return nil, ErrManufacturerExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	manufacturer := &model.Manufacturer{
		Name:        name,
		Description: input.Description,
		LogoURL:     strings.TrimSpace(input.LogoURL),
	}
	if err := s.manufacturerRepo.Create(manufacturer); err != nil {
		return nil, err
	}

	logger.Info("Manufacturer created", map[string]interface{}{
		"manufacturer_id": manufacturer.ID,
		"moderator_id":    identity.UserID,
	})
	return manufacturer, nil
}

// DeleteManufacturer keeps the manufacturer's products and clears their reference.
func (s *catalogService) DeleteManufacturer(identity *authz.Identity, id uint) error {
	if err := authz.RequireModerator(identity); err != nil {
		return err
	}
	if err := s.manufacturerRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrManufacturerNotFound
		}
		return err
	}

	logger.Info("Manufacturer deleted", map[string]interface{}{
		"manufacturer_id": id,
		"moderator_id":    identity.UserID,
	})
	return nil
}

func (s *catalogService) findProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
