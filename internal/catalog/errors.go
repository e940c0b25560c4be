package catalog

import "errors"

// ErrNotFound indicates the requested mod doesn't exist.
var ErrNotFound = errors.New("mod not found")
