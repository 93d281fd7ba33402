// Package auth abstracts the identity provider. The store only needs to
// know which user id, if any, to stamp onto new remote rows.
package auth

import "context"

// Provider reports the currently authenticated user.
type Provider interface {
	// CurrentUserID returns the user identifier and true when a user is
	// signed in, or "" and false otherwise.
	CurrentUserID(ctx context.Context) (string, bool)
}

// Static is a Provider with a fixed identity, fed from config. An empty
// UserID means anonymous: rows are written without a user stamp.
type Static struct {
	UserID string
}

func (s Static) CurrentUserID(ctx context.Context) (string, bool) {
	return s.UserID, s.UserID != ""
}
