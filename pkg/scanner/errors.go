package scanner

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the scanner error types.
var (
	ErrMissingRoot = errors.New("missing root directory")
	ErrShallowPath = errors.New("file too shallow below root")
)

// MissingRootError reports a root path that does not exist or is not a
// directory.
type MissingRootError struct {
	Root   string
	Reason string
	Err    error
}

func (e *MissingRootError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("directory %s does not exist: %s", e.Root, e.Reason)
	}
	return fmt.Sprintf("directory %s does not exist", e.Root)
}

func (e *MissingRootError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *MissingRootError) Is(target error) bool { return target == ErrMissingRoot }

// ShallowPathError reports a regular file with fewer than MinDepth path
// segments below the root, so its tenant and type cannot be derived.
type ShallowPathError struct {
	Root  string
	Path  string
	Depth int
}

func (e *ShallowPathError) Error() string {
	return fmt.Sprintf("file %s under %s is %d level(s) deep, expected at least %d (tenant/type/.../file)",
		e.Path, e.Root, e.Depth, MinDepth)
}

// Is implements errors.Is support
func (e *ShallowPathError) Is(target error) bool { return target == ErrShallowPath }
