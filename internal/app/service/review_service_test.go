package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/internal/authz"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupReviewService(t *testing.T) (*gorm.DB, *reviewService) {
	testDB := setupServiceTestDB(t)
	svc := NewReviewService(
		repository.NewReviewRepository(testDB),
		repository.NewProductRepository(testDB),
	).(*reviewService)
	return testDB, svc
}

func identityOf(u *model.User) *authz.Identity {
	return &authz.Identity{UserID: u.ID, Username: u.Username, Moderator: u.IsModerator}
}

func TestReviewService_SubmitValidation(t *testing.T) {
	testDB, svc := setupReviewService(t)
	user := createUser(t, testDB, "ivan", false)
	product := createProduct(t, testDB, "Enamel", "10.00")

	tests := []struct {
		name      string
		productID uint
		text      string
		rating    *int
		wantErr   error
	}{
		{name: "Missing rating", productID: product.ID, text: "Good", rating: nil, wantErr: ErrInvalidRating},
		{name: "Rating too low", productID: product.ID, text: "Good", rating: intPtr(0), wantErr: ErrInvalidRating},
		{name: "Rating too high", productID: product.ID, text: "Good", rating: intPtr(6), wantErr: ErrInvalidRating},
		{name: "Blank text", productID: product.ID, text: "   ", rating: intPtr(4), wantErr: ErrEmptyReviewText},
		{name: "No product", productID: 0, text: "Good", rating: intPtr(4), wantErr: ErrProductRequired},
		{name: "Unknown product", productID: 9999, text: "Good", rating: intPtr(4), wantErr: ErrUnknownProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := svc.Submit(user.ID, tt.productID, tt.text, tt.rating)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, review)
		})
	}

	var count int64
	testDB.Model(&model.Review{}).Count(&count)
	assert.Zero(t, count)
}

func TestReviewService_SubmitCreatesPending(t *testing.T) {
	testDB, svc := setupReviewService(t)
	user := createUser(t, testDB, "ivan", false)
	product := createProduct(t, testDB, "Enamel", "10.00")

	review, err := svc.Submit(user.ID, product.ID, "  Covers in one coat  ", intPtr(5))
	require.NoError(t, err)

	assert.Equal(t, model.ReviewPending, review.State())
	assert.Equal(t, "Covers in one coat", review.Text)
	assert.Equal(t, "ivan", review.User.Username)
	assert.Equal(t, "Enamel", review.Product.Name)
	assert.Nil(t, review.ModeratedAt)

	public, err := svc.ListPublic()
	require.NoError(t, err)
	assert.Empty(t, public)

	mine, err := svc.ListMine(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].IsApproved)
}

func TestReviewService_GetVisibility(t *testing.T) {
	testDB, svc := setupReviewService(t)
	author := createUser(t, testDB, "author", false)
	other := createUser(t, testDB, "other", false)
	moderator := createUser(t, testDB, "moder", true)
	product := createProduct(t, testDB, "Enamel", "10.00")

	review, err := svc.Submit(author.ID, product.ID, "Nice", intPtr(4))
	require.NoError(t, err)

	tests := []struct {
		name     string
		identity *authz.Identity
		visible  bool
	}{
		{name: "Anonymous", identity: nil, visible: false},
		{name: "Other customer", identity: identityOf(other), visible: false},
		{name: "Author", identity: identityOf(author), visible: true},
		{name: "Moderator", identity: identityOf(moderator), visible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(tt.identity, review.ID)
			if tt.visible {
				require.NoError(t, err)
				assert.Equal(t, review.ID, got.ID)
				return
			}
			assert.ErrorIs(t, err, ErrReviewNotFound)
		})
	}

	_, err = svc.Approve(identityOf(moderator), review.ID)
	require.NoError(t, err)

	got, err := svc.Get(nil, review.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
}

func TestReviewService_ApproveRequiresModerator(t *testing.T) {
	testDB, svc := setupReviewService(t)
	author := createUser(t, testDB, "author", false)
	product := createProduct(t, testDB, "Enamel", "10.00")

	review, err := svc.Submit(author.ID, product.ID, "Nice", intPtr(4))
	require.NoError(t, err)

	_, err = svc.Approve(identityOf(author), review.ID)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = svc.Approve(nil, review.ID)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = svc.ListPending(identityOf(author))
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	stored, err := svc.Get(identityOf(author), review.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsApproved)
}

func TestReviewService_ApproveStampsModerator(t *testing.T) {
	testDB, svc := setupReviewService(t)
	author := createUser(t, testDB, "author", false)
	moderator := createUser(t, testDB, "moder", true)
	product := createProduct(t, testDB, "Enamel", "10.00")

	stamp := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	first, err := svc.Submit(author.ID, product.ID, "First", intPtr(3))
	require.NoError(t, err)
	second, err := svc.Submit(author.ID, product.ID, "Second", intPtr(5))
	require.NoError(t, err)

	pending, err := svc.ListPending(identityOf(moderator))
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	approved, err := svc.Approve(identityOf(moderator), first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, approved.State())
	require.NotNil(t, approved.ModeratorID)
	assert.Equal(t, moderator.ID, *approved.ModeratorID)
	require.NotNil(t, approved.ModeratedAt)
	assert.True(t, stamp.Equal(*approved.ModeratedAt))

	pending, err = svc.ListPending(identityOf(moderator))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	public, err := svc.ListPublic()
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, first.ID, public[0].ID)

	_, err = svc.Approve(identityOf(moderator), 9999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_ExportPending(t *testing.T) {
	testDB, svc := setupReviewService(t)
	author := createUser(t, testDB, "author", false)
	moderator := createUser(t, testDB, "moder", true)
	product := createProduct(t, testDB, "Enamel", "10.00")

	_, err := svc.Submit(author.ID, product.ID, "Dries fast", intPtr(4))
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, svc.ExportPending(identityOf(author), &buf), authz.ErrPermissionDenied)
	assert.Zero(t, buf.Len())

	require.NoError(t, svc.ExportPending(identityOf(moderator), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pending reviews")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Created", "Author", "Product", "Rating", "Text"}, rows[0])
	assert.Equal(t, "author", rows[1][2])
	assert.Equal(t, "Enamel", rows[1][3])
	assert.Equal(t, "4", rows[1][4])
	assert.Equal(t, "Dries fast", rows[1][5])
}
