package auth

import "errors"

var (
	ErrInvalidPasscode    = errors.New("invalid admin passcode")
	ErrInvalidCredentials = errors.New("invalid rep credentials or access has been revoked")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
