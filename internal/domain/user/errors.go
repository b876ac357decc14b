package user

import "errors"

var (
	ErrUnauthenticated         = errors.New("authentication required")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
