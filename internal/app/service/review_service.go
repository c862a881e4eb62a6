package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/internal/authz"
	"github.com/valeriy167/paint-store/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const pendingSheet = "Pending reviews"

type ReviewService interface {
	Submit(userID, productID uint, text string, rating *int) (*model.Review, error)
	ListPublic() ([]model.Review, error)
	Get(identity *authz.Identity, id uint) (*model.Review, error)
	ListPending(identity *authz.Identity) ([]model.Review, error)
	Approve(identity *authz.Identity, id uint) (*model.Review, error)
	ListMine(userID uint) ([]model.Review, error)
	ExportPending(identity *authz.Identity, w io.Writer) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// Submit stores a new review in the pending state.
func (s *reviewService) Submit(userID, productID uint, text string, rating *int) (*model.Review, error) {
	if rating == nil || !model.ValidRating(*rating) {
		return nil, ErrInvalidRating
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReviewText
	}
	if productID == 0 {
		return nil, ErrProductRequired
	}

	exists, err := s.productRepo.Exists(productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownProduct
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Text:      text,
		Rating:    *rating,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	logger.Info("Review submitted for moderation", map[string]interface{}{
		"review_id":  review.ID,
		"user_id":    userID,
		"product_id": productID,
		"rating":     review.Rating,
	})
	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) ListPublic() ([]model.Review, error) {
	return s.reviewRepo.ListApproved()
}

// Get hides pending reviews from everyone except their author and moderators.
func (s *reviewService) Get(identity *authz.Identity, id uint) (*model.Review, error) {
	review, err := s.findReview(id)
	if err != nil {
		return nil, err
	}
	if review.IsApproved {
		return review, nil
	}
	if authz.HasModeratorCapability(identity) || (identity != nil && identity.UserID == review.UserID) {
		return review, nil
	}
	return nil, ErrReviewNotFound
}

func (s *reviewService) ListPending(identity *authz.Identity) ([]model.Review, error) {
	if err := s.requireModerator(identity, "list pending reviews"); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListPending()
}

// Approve publishes a review. Approving an approved review restamps it.
func (s *reviewService) Approve(identity *authz.Identity, id uint) (*model.Review, error) {
	if err := s.requireModerator(identity, "approve review"); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Approve(id, identity.UserID, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	logger.Info("Review approved", map[string]interface{}{
		"review_id":    id,
		"moderator_id": identity.UserID,
	})
	return s.findReview(id)
}

func (s *reviewService) ListMine(userID uint) ([]model.Review, error) {
	return s.reviewRepo.ListByUser(userID)
}

// ExportPending writes the moderation queue as an .xlsx workbook.
func (s *reviewService) ExportPending(identity *authz.Identity, w io.Writer) error {
	reviews, err := s.ListPending(identity)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), pendingSheet); err != nil {
		return err
	}

	headers := []interface{}{"ID", "Created", "Author", "Product", "Rating", "Text"}
	if err := f.SetSheetRow(pendingSheet, "A1", &headers); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(pendingSheet, "A1", "F1", style)
	}

	for i, r := range reviews {
		row := []interface{}{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.User.Username,
			r.Product.Name,
			r.Rating,
			r.Text,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(pendingSheet, cell, &row); err != nil {
			return err
		}
	}
	f.SetColWidth(pendingSheet, "F", "F", 80)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write pending reviews workbook: %w", err)
	}

	logger.Info("Pending reviews exported", map[string]interface{}{
		"moderator_id": identity.UserID,
		"count":        len(reviews),
	})
	return nil
}

func (s *reviewService) requireModerator(identity *authz.Identity, action string) error {
	if err := authz.RequireModerator(identity); err != nil {
		fields := map[string]interface{}{"action": action}
		if identity != nil {
			fields["user_id"] = identity.UserID
		}
		logger.Warn("Moderator capability required", fields)
		return err
	}
	return nil
}

func (s *reviewService) findReview(id uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
