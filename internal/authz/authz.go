// Package authz decides which authenticated identities may moderate
// reviews and edit the catalog.
package authz

import "errors"

var ErrPermissionDenied = errors.New("permission denied")

// Identity is the caller as resolved from an access token.
type Identity struct {
	UserID    uint
	Username  string
	Moderator bool
}

// HasModeratorCapability reports whether the identity may moderate.
// A nil identity (anonymous caller) never has the capability.
func HasModeratorCapability(id *Identity) bool {
	return id != nil && id.Moderator
}

// RequireModerator returns ErrPermissionDenied unless the identity can moderate.
func RequireModerator(id *Identity) error {
	if !HasModeratorCapability(id) {
		return ErrPermissionDenied
	}
	return nil
}
