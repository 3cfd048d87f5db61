package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInternal           = errors.New("internal error")
)

// ValidationError reports why an input was rejected. The message is safe to
// return to clients and, for passwords, lists every unmet rule at once.
type ValidationError struct {
	Detail string
}

func NewValidationError(detail string) *ValidationError {
	return &ValidationError{Detail: detail}
}

func (e *ValidationError) Error() string {
	return e.Detail
}
