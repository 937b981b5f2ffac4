package render

import "fmt"

// RenderError indicates that a template could not be parsed or executed.
type RenderError struct {
	// Engine is the engine name.
	Engine string
	// Name identifies what was being rendered (a file path or a path template).
	Name string
	// Cause is the underlying engine error.
	Cause error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s with %s engine: %v", e.Name, e.Engine, e.Cause)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError.
func NewRenderError(engine, name string, cause error) *RenderError {
	return &RenderError{
		Engine: engine,
		Name:   name,
		Cause:  cause,
	}
}
