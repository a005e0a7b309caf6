package table

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry may be returned from [New].
var ErrInvalidGeometry = errors.New("invalid table geometry")

func geometryError(capacity, ways int) error {
	return fmt.Errorf(
		"%w: capacity %d must be a positive multiple of %d ways",
		ErrInvalidGeometry, capacity, ways)
}
