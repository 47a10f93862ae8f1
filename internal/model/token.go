package model

import "time"

// RefreshToken is the single active refresh token of a user.
type RefreshToken struct {
	UserID int64
	Token  string
	TTL    time.Duration
}

// TokenPair is what a successful login hands out.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
