package repository

import (
	"time"

	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	ListApproved() ([]model.Review, error)
	ListPending() ([]model.Review, error)
	ListByUser(userID uint) ([]model.Review, error)
	Approve(id, moderatorID uint, at time.Time) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"user_id":    review.UserID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	})

	if err := r.db.Omit(clause.Associations).Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":    review.UserID,
			"product_id": review.ProductID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) withRelations() *gorm.DB {
	return r.db.Preload("User").Preload("Product")
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.withRelations().First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) list(query *gorm.DB) ([]model.Review, error) {
	var reviews []model.Review
	err := query.Order("reviews.created_at DESC").Order("reviews.id DESC").Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews", err)
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListApproved() ([]model.Review, error) {
	return r.list(r.withRelations().Where("is_approved = ?", true))
}

func (r *reviewRepository) ListPending() ([]model.Review, error) {
	return r.list(r.withRelations().Where("is_approved = ?", false))
}

func (r *reviewRepository) ListByUser(userID uint) ([]model.Review, error) {
	return r.list(r.withRelations().Where("user_id = ?", userID))
}

func (r *reviewRepository) Approve(id, moderatorID uint, at time.Time) error {
	logger.Debug("Approving review in database", map[string]interface{}{
		"review_id":    id,
		"moderator_id": moderatorID,
	})

	res := r.db.Model(&model.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_approved":  true,
		"moderator_id": moderatorID,
		"moderated_at": at,
	})
	if res.Error != nil {
		logger.Error("Failed to approve review", res.Error, map[string]interface{}{
			"review_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
