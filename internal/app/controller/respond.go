package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/authz"
	"github.com/valeriy167/paint-store/internal/errors"
	"github.com/valeriy167/paint-store/internal/middleware"
)

// errorCodes gives specific sentinels their own response code; anything
// else falls back to the code of its category.
var errorCodes = []struct {
	err  error
	code string
}{
	{service.ErrInvalidRating, errors.ReviewInvalidRating},
	{service.ErrUnsupportedImageType, errors.UploadInvalidFileType},
	{service.ErrInvalidPrice, errors.ValidationInvalidRange},
	{service.ErrInvalidStock, errors.ValidationInvalidRange},
	{service.ErrProductRequired, errors.ValidationRequired},
	{service.ErrEmptyReviewText, errors.ValidationRequired},
	{service.ErrCartItemNotFound, errors.CartItemNotFound},
	{service.ErrProductNotFound, errors.ProductNotFound},
	{service.ErrManufacturerNotFound, errors.ManufacturerNotFound},
	{service.ErrReviewNotFound, errors.ReviewNotFound},
	{service.ErrUsernameTaken, errors.AuthUsernameExists},
	{service.ErrEmailTaken, errors.AuthEmailAlreadyExists},
	{service.ErrManufacturerExists, errors.ManufacturerExists},
	{service.ErrInvalidCredentials, errors.AuthInvalidCredentials},
	{service.ErrInvalidRefreshToken, errors.AuthTokenInvalid},
}

func codeFor(err error, fallback string) string {
	for _, ec := range errorCodes {
		if stderrors.Is(err, ec.err) {
			return ec.code
		}
	}
	return fallback
}

// detail strips the category prefix from a sentinel's message.
func detail(err error, category error) string {
	return strings.TrimPrefix(err.Error(), category.Error()+": ")
}

// respondServiceError maps service errors onto HTTP responses. action names
// the operation for logs and for the fallback message.
func respondServiceError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)
	fields := map[string]interface{}{
		"action": action,
		"error":  err.Error(),
	}

	switch {
	case stderrors.Is(err, authz.ErrPermissionDenied):
		log.Warn("Permission denied", fields)
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzModeratorOnly, "Moderator access required")
	case stderrors.Is(err, service.ErrEmptyCart):
		log.Warn("Checkout with empty cart", fields)
		errors.BadRequest(c, errors.CartEmpty, "Cart is empty")
	case stderrors.Is(err, service.ErrValidation):
		log.Warn("Validation failed", fields)
		errors.BadRequest(c, codeFor(err, errors.ValidationInvalidInput), detail(err, service.ErrValidation))
	case stderrors.Is(err, service.ErrNotFound):
		log.Warn("Resource not found", fields)
		errors.NotFound(c, codeFor(err, errors.ResourceNotFound), detail(err, service.ErrNotFound)+" not found")
	case stderrors.Is(err, service.ErrConflict):
		log.Warn("Conflict", fields)
		errors.Conflict(c, codeFor(err, errors.ResourceConflict), detail(err, service.ErrConflict))
	case stderrors.Is(err, service.ErrUnauthenticated):
		log.Warn("Authentication failed", fields)
		errors.RespondWithError(c, http.StatusUnauthorized, codeFor(err, errors.AuthUnauthorized), detail(err, service.ErrUnauthenticated))
	case stderrors.Is(err, service.ErrImageStorageDisabled):
		log.Error("Image storage is not configured", err, fields)
		errors.RespondWithError(c, http.StatusServiceUnavailable, errors.InternalConfigError, "Image uploads are not available")
	default:
		log.Error("Request failed", err, fields)
		info := errors.ParseError(err, action)
		status := http.StatusInternalServerError
		switch info.Code {
		case errors.ResourceAlreadyExists, errors.AuthEmailAlreadyExists, errors.AuthUsernameExists, errors.ManufacturerExists:
			status = http.StatusConflict
		}
		errors.RespondWithError(c, status, info.Code, info.Message)
	}
}

// requireIdentity returns the authenticated caller or writes a 401.
func requireIdentity(c *gin.Context) (*authz.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Unauthenticated access", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		errors.Unauthorized(c, "")
		return nil, false
	}
	return identity, true
}

// parseID reads a positive numeric path parameter or writes a 400.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
}
