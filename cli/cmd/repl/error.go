package repl

import "errors"

// ErrOutOfBounds is returned for a history index outside the history.
var ErrOutOfBounds = errors.New("index out of range")
