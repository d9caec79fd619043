package manifest

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the manifest error types.
var (
	ErrUnreadable = errors.New("manifest unreadable")
	ErrMalformed  = errors.New("manifest malformed")
	ErrSchema     = errors.New("manifest does not match DATA_FETCH structure")
)

// UnreadableError reports that the manifest file could not be opened or read.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("cannot open xml description file %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *UnreadableError) Is(target error) bool { return target == ErrUnreadable }

// MalformedError reports content that is not well-formed XML.
type MalformedError struct {
	Source string
	Err    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("xml not readable %s: %v", e.Source, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// SchemaError reports well-formed XML that does not carry the expected
// DATA_FETCH structure. Item is the zero-based DATA_ITEM index, or -1 when
// the problem is at document level.
type SchemaError struct {
	Source string
	Item   int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("xml (%s) does not contain expected data fetch structure: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("xml (%s) does not contain expected data fetch structure: item %d: %s", e.Source, e.Item, e.Reason)
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
