package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/pkg/logger"
	"github.com/valeriy167/paint-store/pkg/util"
	"gorm.io/gorm"
)

// TokenBlacklist revokes access tokens before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, expiry time.Duration) error
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Telegram  string
}

// ProfileUpdate holds optional profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Telegram  *string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(username, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	DeleteAccount(ctx context.Context, userID uint, accessToken string, expiresAt time.Time) error
	Logout(ctx context.Context, accessToken string, expiresAt time.Time) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService accepts a nil blacklist; logout is then a client-side no-op.
func NewAuthService(
	userRepo repository.UserRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	if username == "" {
		return nil, nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, ErrInvalidEmail
	}

	if err := s.ensureAvailable(username, email); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooShort) {
			return nil, nil, ErrWeakPassword
		}
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Telegram:     strings.TrimSpace(input.Telegram),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return user, tokens, nil
}

func (s *authService) ensureAvailable(username, email string) error {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		logger.Warn("Registration failed: username taken", map[string]interface{}{
			"username": username,
		})
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		logger.Warn("Registration failed: email taken", map[string]interface{}{
			"username": username,
		})
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *authService) Login(username, password string) (*model.User, *util.TokenPair, error) {
	username = strings.TrimSpace(username)
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":      user.ID,
		"is_moderator": user.IsModerator,
	})
	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair, re-reading the user so
// a changed moderator flag takes effect.
func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) Logout(ctx context.Context, accessToken string, expiresAt time.Time) error {
	if s.blacklist == nil || accessToken == "" {
		return nil
	}
	return s.blacklist.BlacklistToken(ctx, accessToken, time.Until(expiresAt))
}

// DeleteAccount removes the user together with their cart and revokes the
// token the request was made with.
func (s *authService) DeleteAccount(ctx context.Context, userID uint, accessToken string, expiresAt time.Time) error {
	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	logger.Info("User account deleted", map[string]interface{}{
		"user_id": userID,
	})
	if err := s.Logout(ctx, accessToken, expiresAt); err != nil {
		logger.Warn("Failed to revoke token of deleted account", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			if other, err := s.userRepo.FindByEmail(email); err == nil && other.ID != user.ID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if update.FirstName != nil {
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Telegram != nil {
		user.Telegram = strings.TrimSpace(*update.Telegram)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		user.IsModerator,
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}
