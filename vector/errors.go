package vector

import (
	"errors"
	"fmt"
)

// IndexError is returned by Set for positional access beyond the vector's
// length.
type IndexError struct {
	Requested int
	Length    int
}

func (e IndexError) Error() string {
	return fmt.Sprintf("vector index out of bounds: %d with length %d", e.Requested, e.Length)
}

// ErrEmpty is returned by Pop on a vector of length 0.
var ErrEmpty = errors.New("attempt to remove item from empty vector")
