package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrStoreNotFound   = errors.New("store not found")
	ErrStoreNoPixKey   = errors.New("store has no pix key")
	ErrProductNotFound = errors.New("product not found in store")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderFinalized    = errors.New("order status is final")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrPaymentGateway    = errors.New("payment gateway failure")
	ErrRatingNotFound    = errors.New("rating not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrInvalidImage      = errors.New("invalid image")
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")

	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError carries a message meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
