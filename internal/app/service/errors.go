package service

import (
	"errors"
	"fmt"
)

// Categories the HTTP layer maps to status codes. Every specific sentinel
// below wraps exactly one of them.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrEmptyCart       = errors.New("cart is empty")
)

var (
	ErrProductRequired  = fmt.Errorf("%w: product_id is required", ErrValidation)
	ErrUnknownProduct   = fmt.Errorf("%w: product does not exist", ErrValidation)
	ErrCartItemNotFound = fmt.Errorf("%w: cart item", ErrNotFound)

	ErrInvalidRating   = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrEmptyReviewText = fmt.Errorf("%w: review text is required", ErrValidation)
	ErrReviewNotFound  = fmt.Errorf("%w: review", ErrNotFound)

	ErrProductNotFound      = fmt.Errorf("%w: product", ErrNotFound)
	ErrManufacturerNotFound = fmt.Errorf("%w: manufacturer", ErrNotFound)
	ErrUnknownManufacturer  = fmt.Errorf("%w: manufacturer does not exist", ErrValidation)
	ErrInvalidProductName   = fmt.Errorf("%w: name is required", ErrValidation)
	ErrInvalidPrice         = fmt.Errorf("%w: price must be a non-negative amount", ErrValidation)
	ErrInvalidStock         = fmt.Errorf("%w: stock must not be negative", ErrValidation)
	ErrManufacturerExists   = fmt.Errorf("%w: manufacturer name already used", ErrConflict)
	ErrUnsupportedImageType = fmt.Errorf("%w: image must be jpeg, png or webp", ErrValidation)
	ErrImageStorageDisabled = errors.New("image storage not configured")

	ErrUsernameTaken       = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidUsername     = fmt.Errorf("%w: username is required", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: email is invalid", ErrValidation)
	ErrWeakPassword        = fmt.Errorf("%w: password is too short", ErrValidation)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
)
