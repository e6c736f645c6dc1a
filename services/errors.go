package services

import "errors"

// Domain errors surfaced to the HTTP layer. Anything else maps to a 500.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrKYCRegression     = errors.New("kyc status cannot move backwards")

	ErrCodeNotFound    = errors.New("verification code not found")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeIncorrect   = errors.New("verification code incorrect")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)
