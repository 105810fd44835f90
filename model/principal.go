package model

import "time"

// Principal is the authenticated caller of a service operation.
type Principal struct {
	UserID   string
	Username string
	IsSuper  bool

	// TokenID and ExpiresAt describe the access token the principal came with, if any.
	TokenID   string
	ExpiresAt time.Time
}
