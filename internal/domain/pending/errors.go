package pending

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("pending operation not found")
	ErrDuplicateToken = errors.New("pending operation token already exists")
)

// ErrAlreadyConsumed also matches ErrNotFound.
var ErrAlreadyConsumed = fmt.Errorf("%w: already consumed", ErrNotFound)
