package candidate

import (
	"errors"
	"fmt"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrUsernameExists    = errors.New("username already exists")
	ErrNoDetailsProvided = errors.New("no details provided to update")
	ErrInvalidStatus     = errors.New("invalid candidate status")
)

// UsernameTakenError names the username that collided. It matches ErrUsernameExists.
type UsernameTakenError struct {
	Username string
}

func (e *UsernameTakenError) Error() string {
	return fmt.Sprintf("a user with username '%s' already exists", e.Username)
}

func (e *UsernameTakenError) Is(target error) bool {
	return target == ErrUsernameExists
}
