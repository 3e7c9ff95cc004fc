package auth

import "errors"

// Token and credential errors. The API maps all of them to 401.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")

	// ErrWrongTokenType means a refresh token was presented where an
	// access token was expected, or the reverse.
	ErrWrongTokenType = errors.New("wrong token type")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrInvalidCredentials is a password that does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
