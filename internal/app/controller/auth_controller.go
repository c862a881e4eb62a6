package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/middleware"
	"github.com/valeriy167/paint-store/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Telegram  string `json:"telegram"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Telegram  *string `json:"telegram"`
}

type AuthResponse struct {
	User   service.UserView `json:"user"`
	Tokens *util.TokenPair  `json:"tokens"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Telegram:  req.Telegram,
	})
	if err != nil {
		respondServiceError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		User:   service.NewUserView(user),
		Tokens: tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		User:   service.NewUserView(user),
		Tokens: tokens,
	})
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := ctrl.authService.Refresh(req.Refresh)
	if err != nil {
		respondServiceError(c, err, "refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	token, expiresAt := middleware.GetAccessToken(c)
	if err := ctrl.authService.Logout(c.Request.Context(), token, expiresAt); err != nil {
		respondServiceError(c, err, "logout")
		return
	}

	log.Info("User logged out", map[string]interface{}{
		"user_id": identity.UserID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// DeleteMe removes the current user's account and cart
// DELETE /api/v1/auth/me
func (ctrl *AuthController) DeleteMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	token, expiresAt := middleware.GetAccessToken(c)
	if err := ctrl.authService.DeleteAccount(c.Request.Context(), identity.UserID, token, expiresAt); err != nil {
		respondServiceError(c, err, "delete account")
		return
	}

	log.Info("User deleted own account", map[string]interface{}{
		"user_id": identity.UserID,
	})
	c.Status(http.StatusNoContent)
}

// GetMe returns the current user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(identity.UserID)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": service.NewUserView(user)})
}

// UpdateMe updates profile fields used as checkout contact defaults
// PATCH /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctrl.authService.UpdateProfile(identity.UserID, service.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Telegram:  req.Telegram,
	})
	if err != nil {
		respondServiceError(c, err, "update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": service.NewUserView(user)})
}
