package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken       = errors.New("missing access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindUnauthorized,
		err:        wrapSentinel("Access token missing", ErrMissingToken),
	}
}

// NewInvalidTokenError covers both bad signatures and expiry so callers
// cannot tell them apart.
func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindUnauthorized,
		err:        wrapSentinel("Invalid or expired token", ErrInvalidToken),
		Cause:      cause,
	}
}

// NewInvalidCredentialsError is returned for an unknown email and for a wrong
// password alike.
func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindUnauthorized,
		err:        wrapSentinel("Invalid credentials", ErrInvalidCredentials),
	}
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
