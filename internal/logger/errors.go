package logger

import "errors"

// ErrInvalidFields is returned when invalid fields are provided to a logging
// method.
var ErrInvalidFields = errors.New("invalid fields: must be key-value pairs")
