package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrResetTokenExpired  = errors.New("token expired")
	ErrResetTokenUsed     = errors.New("token already used")
	ErrAlreadySubscribed  = errors.New("already subscribed")
	ErrNotSubscribed      = errors.New("not subscribed")
	ErrPaymentIncomplete  = errors.New("payment incomplete")
	ErrInvalidImage       = errors.New("image must be an image file up to 2MB")
)

// 1ページあたりの件数
const (
	restaurantsPerPage  = 15
	reviewsPerPage      = 5
	reservationsPerPage = 15
	favoritesPerPage    = 15
	adminPerPage        = 15

	freeReviewLimit = 3
	homeListSize    = 6
)
