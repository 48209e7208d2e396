package symbol

import (
	"errors"
	"fmt"
)

// CollisionError reports two distinct symbol texts that hash to one code.
type CollisionError struct {
	Code   uint32
	First  string
	Second string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("hash collision on code %d: %q and %q", e.Code, e.First, e.Second)
}

// IsCollision returns true if err is or wraps a CollisionError.
func IsCollision(err error) bool {
	var ce *CollisionError
	return errors.As(err, &ce)
}
