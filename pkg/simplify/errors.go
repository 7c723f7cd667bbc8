package simplify

import (
	"errors"
	"fmt"
)

// Decimation errors.
var (
	ErrInvalidMesh    = errors.New("invalid mesh")
	ErrInvalidOptions = errors.New("invalid simplify options")
)

// InvalidMeshError reports a structurally malformed input mesh. It is returned
// before any working state is built.
type InvalidMeshError struct {
	Reason string
}

func (e *InvalidMeshError) Error() string {
	return fmt.Sprintf("invalid mesh: %s", e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidMesh.
func (e *InvalidMeshError) Unwrap() error {
	return ErrInvalidMesh
}

func invalidMesh(format string, args ...any) error {
	return &InvalidMeshError{Reason: fmt.Sprintf(format, args...)}
}
