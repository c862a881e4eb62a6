package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-safe code and message derived from an internal error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or network error into an ErrorInfo without
// leaking driver details. context names the operation, e.g. "create review".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL 23505 and SQLite "UNIQUE constraint failed"
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "users.email") || strings.Contains(errLower, "idx_users_email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errLower, "users.username") || strings.Contains(errLower, "idx_users_username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username is already taken"}
	case strings.Contains(errLower, "manufacturers.name") || strings.Contains(errLower, "idx_manufacturers_name"):
		return ErrorInfo{Code: ManufacturerExists, Message: "Manufacturer with this name already exists"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "Resource is still referenced by other data"}
	}
	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{Code: ProductNotFound, Message: "Product not found"}
	}
	if strings.Contains(errLower, "manufacturer_id") {
		return ErrorInfo{Code: ManufacturerNotFound, Message: "Manufacturer not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referenced resource not found"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "cart item"):
		return "Cart item not found"
	case strings.Contains(contextLower, "manufacturer"):
		return "Manufacturer not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "Requested resource not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create resource, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update resource, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete resource, please try again later"
	}
	return "Internal server error, please try again later"
}

// ParseAndRespond parses err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
