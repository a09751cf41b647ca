package auth

import (
	"fmt"

	"github.com/phrazzld/cowork-api/internal/domain"
)

// Authentication errors. They are the domain sentinels, or wrap them, so the
// API maps them to stable codes without knowing this package.
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = domain.ErrInvalidToken

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = domain.ErrExpiredToken

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = fmt.Errorf("%w: not yet valid", domain.ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = domain.ErrUnauthorized
)
