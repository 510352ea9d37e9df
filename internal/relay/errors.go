package relay

import "errors"

var (
	ErrMissingField = errors.New("missing required fields")
	ErrNotFound     = errors.New("message not found")
)
