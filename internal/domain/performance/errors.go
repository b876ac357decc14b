package performance

import "errors"

var (
	ErrAgentNotFound = errors.New("agent not found in performance sync")
)
