package model

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is matched by every *DimensionMismatchError.
var ErrDimensionMismatch = errors.New("model: dimension mismatch")

// ErrEmpty indicates an input vector or layer with no elements.
var ErrEmpty = errors.New("model: empty vector or layer")

// DimensionMismatchError names the two dimensions that disagreed.
type DimensionMismatchError struct {
	Left      string
	LeftSize  int
	Right     string
	RightSize int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("model: dimension mismatch: %s=%d != %s=%d", e.Left, e.LeftSize, e.Right, e.RightSize)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

func mismatch(left string, leftSize int, right string, rightSize int) error {
	return &DimensionMismatchError{Left: left, LeftSize: leftSize, Right: right, RightSize: rightSize}
}
