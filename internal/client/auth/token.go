package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is what the client can read from its own token. The signature is not
// checked; only the server can do that.
type Info struct {
	UserID    string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry lies before now. Tokens without
// an expiry never expire.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

type claims struct {
	jwt.RegisteredClaims
	Data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"data"`
}

// ParseInfo decodes the claims of a JWT without verifying it.
func ParseInfo(token string) (Info, error) {
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Info{}, fmt.Errorf("parse token: %w", err)
	}

	info := Info{UserID: c.Data.User.ID, Issuer: c.Issuer}
	if info.UserID == "" {
		info.UserID = c.Subject
	}
	if c.IssuedAt != nil {
		info.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info, nil
}
