package metaform

import (
	"errors"
	"fmt"
)

// ErrOutOfRange signals a coordinate or index that addresses a section or
// field that does not exist. Transforms returning it also return their input
// unchanged.
var ErrOutOfRange = errors.New("metaform: index out of range")

func sectionOutOfRange(s, n int) error {
	return fmt.Errorf("%w: section %d (have %d)", ErrOutOfRange, s, n)
}

func fieldOutOfRange(s, f, n int) error {
	return fmt.Errorf("%w: field %d in section %d (have %d)", ErrOutOfRange, f, s, n)
}

func positionOutOfRange(what string, pos, limit int) error {
	return fmt.Errorf("%w: %s position %d (max %d)", ErrOutOfRange, what, pos, limit)
}
