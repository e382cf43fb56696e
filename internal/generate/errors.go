package generate

import (
	"errors"
	"fmt"
)

// ErrNoInputImages is returned when the input holds no recognised raster files.
var ErrNoInputImages = errors.New("no input images found")

// LayerReadError reports an input layer that could not be read or decoded.
type LayerReadError struct {
	Path string
	Err  error
}

func (e *LayerReadError) Error() string {
	return fmt.Sprintf("failed to read layer %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LayerReadError) Unwrap() error {
	return e.Err
}

// OutputWriteError reports a failure persisting a generated image. Index is
// the 1-based output number, or 0 when the failure is not tied to one output.
type OutputWriteError struct {
	Path  string
	Index int
	Err   error
}

func (e *OutputWriteError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("failed to write image %d to %s: %v", e.Index, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *OutputWriteError) Unwrap() error {
	return e.Err
}

// ValidationError captures a parameter that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
