package model

import (
	"time"
)

type ReviewState string

const (
	ReviewPending  ReviewState = "pending"
	ReviewApproved ReviewState = "approved"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type Review struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	ProductID   uint       `gorm:"not null;index" json:"product_id"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	Rating      int        `gorm:"not null;default:5;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	IsApproved  bool       `gorm:"not null;default:false;index" json:"is_approved"`
	ModeratorID *uint      `gorm:"index" json:"moderator_id,omitempty"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
	Moderator *User   `gorm:"foreignKey:ModeratorID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) State() ReviewState {
	if r.IsApproved {
		return ReviewApproved
	}
	return ReviewPending
}

func ValidRating(rating int) bool {
	return rating >= MinReviewRating && rating <= MaxReviewRating
}
