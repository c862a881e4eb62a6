package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	ProductID uint   `json:"product_id"`
	Text      string `json:"text"`
	Rating    *int   `json:"rating"`
}

// List returns approved reviews, newest first
// GET /api/v1/reviews
func (ctrl *ReviewController) List(c *gin.Context) {
	reviews, err := ctrl.reviewService.ListPublic()
	if err != nil {
		respondServiceError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, service.NewReviewViews(reviews))
}

// Create submits a review for moderation
// POST /api/v1/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := ctrl.reviewService.Submit(identity.UserID, req.ProductID, req.Text, req.Rating)
	if err != nil {
		respondServiceError(c, err, "create review")
		return
	}
	c.JSON(http.StatusCreated, service.NewReviewView(review))
}

// Mine returns the caller's reviews in any state
// GET /api/v1/reviews/my
func (ctrl *ReviewController) Mine(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListMine(identity.UserID)
	if err != nil {
		respondServiceError(c, err, "list my reviews")
		return
	}
	c.JSON(http.StatusOK, service.NewReviewViews(reviews))
}

// Pending returns the moderation queue
// GET /api/v1/reviews/pending
func (ctrl *ReviewController) Pending(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	reviews, err := ctrl.reviewService.ListPending(identity)
	if err != nil {
		respondServiceError(c, err, "list pending reviews")
		return
	}
	c.JSON(http.StatusOK, service.NewReviewViews(reviews))
}

// ExportPending downloads the moderation queue as a spreadsheet
// GET /api/v1/reviews/pending/export
func (ctrl *ReviewController) ExportPending(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var buf bytes.Buffer
	if err := ctrl.reviewService.ExportPending(identity, &buf); err != nil {
		respondServiceError(c, err, "export pending reviews")
		return
	}

	filename := fmt.Sprintf("pending-reviews-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Get returns one review; pending reviews only to their author or a moderator
// GET /api/v1/reviews/:id
func (ctrl *ReviewController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	review, err := ctrl.reviewService.Get(identity, id)
	if err != nil {
		respondServiceError(c, err, "get review")
		return
	}
	c.JSON(http.StatusOK, service.NewReviewView(review))
}

// Approve publishes a pending review
// PATCH /api/v1/reviews/:id/approve
func (ctrl *ReviewController) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	review, err := ctrl.reviewService.Approve(identity, id)
	if err != nil {
		respondServiceError(c, err, "approve review")
		return
	}
	c.JSON(http.StatusOK, service.NewReviewView(review))
}
