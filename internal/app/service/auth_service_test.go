package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/pkg/util"
	"gorm.io/gorm"
)

const testJWTSecret = "service-test-secret"

type fakeBlacklist struct {
	tokens map[string]time.Duration
}

func (f *fakeBlacklist) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	f.tokens[token] = expiry
	return nil
}

func setupAuthService(t *testing.T, blacklist TokenBlacklist) (*gorm.DB, AuthService) {
	testDB := setupServiceTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(testDB), blacklist, testJWTSecret, 15*time.Minute, time.Hour)
	return testDB, svc
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:  "ivan",
		Email:     "Ivan@Example.com",
		Password:  "password123",
		FirstName: "Ivan",
		Phone:     "+7 900 000-00-01",
	}
}

func TestAuthService_Register(t *testing.T) {
	_, svc := setupAuthService(t, nil)

	user, tokens, err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ivan@example.com", user.Email)
	assert.False(t, user.IsModerator)
	assert.NotEqual(t, "password123", user.PasswordHash)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.Moderator)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	_, svc := setupAuthService(t, nil)
	_, _, err := svc.Register(validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(in *RegisterInput)
		wantErr error
	}{
		{name: "Username taken", mutate: func(in *RegisterInput) { in.Email = "other@example.com" }, wantErr: ErrUsernameTaken},
		{name: "Email taken", mutate: func(in *RegisterInput) { in.Username = "other" }, wantErr: ErrEmailTaken},
		{name: "Blank username", mutate: func(in *RegisterInput) { in.Username = " " }, wantErr: ErrInvalidUsername},
		{name: "Bad email", mutate: func(in *RegisterInput) { in.Username = "other"; in.Email = "nope" }, wantErr: ErrInvalidEmail},
		{name: "Short password", mutate: func(in *RegisterInput) {
			in.Username = "other"
			in.Email = "other@example.com"
			in.Password = "123"
		}, wantErr: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)
			_, _, err := svc.Register(in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthService(t, nil)
	_, _, err := svc.Register(validRegistration())
	require.NoError(t, err)
	require.NoError(t, testDB.Exec("UPDATE users SET is_moderator = ? WHERE username = ?", true, "ivan").Error)

	user, tokens, err := svc.Login("ivan", "password123")
	require.NoError(t, err)
	assert.True(t, user.IsModerator)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.True(t, claims.Moderator)

	_, _, err = svc.Login("ivan", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Refresh(t *testing.T) {
	_, svc := setupAuthService(t, nil)
	user, tokens, err := svc.Register(validRegistration())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := util.ValidateToken(refreshed.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Logout(t *testing.T) {
	blacklist := &fakeBlacklist{tokens: map[string]time.Duration{}}
	_, svc := setupAuthService(t, blacklist)

	require.NoError(t, svc.Logout(context.Background(), "access-token", time.Now().Add(10*time.Minute)))
	require.Contains(t, blacklist.tokens, "access-token")
	assert.Greater(t, blacklist.tokens["access-token"], 9*time.Minute)

	_, noBlacklist := setupAuthService(t, nil)
	assert.NoError(t, noBlacklist.Logout(context.Background(), "access-token", time.Now().Add(time.Minute)))
}

func TestAuthService_DeleteAccount(t *testing.T) {
	blacklist := &fakeBlacklist{tokens: map[string]time.Duration{}}
	testDB, svc := setupAuthService(t, blacklist)
	user, _, err := svc.Register(validRegistration())
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	cart, err := cartRepo.GetOrCreate(user.ID)
	require.NoError(t, err)
	product := createProduct(t, testDB, "Enamel", "10.00")
	_, err = cartRepo.AddQuantity(cart.ID, product.ID, 3)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.DeleteAccount(ctx, user.ID, "access-token", time.Now().Add(time.Minute)))
	assert.Contains(t, blacklist.tokens, "access-token")

	_, _, err = svc.Login("ivan", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var lines int64
	require.NoError(t, testDB.Table("cart_items").Where("cart_id = ?", cart.ID).Count(&lines).Error)
	assert.Zero(t, lines)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, user.ID, "", time.Time{}), ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	_, svc := setupAuthService(t, nil)
	user, _, err := svc.Register(validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.Username = "olga"
	other.Email = "olga@example.com"
	_, _, err = svc.Register(other)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{
		LastName: strPtr(" Petrov "),
		Telegram: strPtr("@ivan"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Petrov", updated.LastName)
	assert.Equal(t, "@ivan", updated.Telegram)
	assert.Equal(t, "Ivan", updated.FirstName)
	assert.Equal(t, "+7 900 000-00-01", updated.Phone)

	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Email: strPtr("olga@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Email: strPtr("bad")})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.UpdateProfile(9999, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
