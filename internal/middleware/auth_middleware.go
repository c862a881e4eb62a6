package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriy167/paint-store/internal/authz"
	"github.com/valeriy167/paint-store/internal/errors"
	"github.com/valeriy167/paint-store/pkg/util"
)

// Context keys for caller information
const (
	IdentityKey       = "identity"
	AccessTokenKey    = "access_token"
	TokenExpiresAtKey = "token_expires_at"
)

// TokenChecker reports whether an access token was revoked on logout.
type TokenChecker interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoked   TokenChecker
}

// NewAuthMiddleware accepts a nil checker, in which case tokens are only
// checked for signature and expiry.
func NewAuthMiddleware(jwtSecret string, revoked TokenChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoked:   revoked,
	}
}

// Authenticate validates the bearer token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err == nil && claims.TokenType != util.TokenTypeAccess {
			err = util.ErrInvalidToken
		}
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Token has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		if m.isRevoked(c, token) {
			log.Warn("Revoked token used", map[string]interface{}{
				"path":    c.Request.URL.Path,
				"user_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		setIdentity(c, token, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":      claims.UserID,
			"is_moderator": claims.Moderator,
		})

		c.Next()
	}
}

// OptionalAuthenticate sets the identity when a valid token is present and
// otherwise continues as an anonymous caller.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			log.Debug("Invalid authorization header format - continuing as guest", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil || claims.TokenType != util.TokenTypeAccess || m.isRevoked(c, token) {
			log.Debug("Token rejected - continuing as guest", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.Next()
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}

// RequireModerator lets the request through only for callers holding the
// moderator capability. It must run after Authenticate.
func (m *AuthMiddleware) RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity, ok := GetIdentity(c)
		if !ok {
			log.Warn("Identity not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !authz.HasModeratorCapability(identity) {
			log.Warn("Moderator capability required", map[string]interface{}{
				"user_id": identity.UserID,
				"path":    c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzModeratorOnly, "Moderator access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// isRevoked fails open when the blacklist store is unreachable.
func (m *AuthMiddleware) isRevoked(c *gin.Context, token string) bool {
	if m.revoked == nil {
		return false
	}
	revoked, err := m.revoked.IsTokenBlacklisted(c.Request.Context(), token)
	if err != nil {
		GetLoggerFromContext(c).Warn("Token blacklist check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return revoked
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, token string, claims *util.Claims) {
	c.Set(IdentityKey, &authz.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Moderator: claims.Moderator,
	})
	c.Set(AccessTokenKey, token)
	if claims.ExpiresAt != nil {
		c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
	}
}

// GetIdentity extracts the authenticated caller from context
func GetIdentity(c *gin.Context) (*authz.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*authz.Identity)
	return identity, ok
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	identity, ok := GetIdentity(c)
	if !ok {
		return 0, false
	}
	return identity.UserID, true
}

// GetAccessToken returns the raw token and its expiry for logout.
func GetAccessToken(c *gin.Context) (string, time.Time) {
	return c.GetString(AccessTokenKey), c.GetTime(TokenExpiresAtKey)
}
