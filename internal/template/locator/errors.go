package locator

import "fmt"

// TemplateNotFoundError indicates that a template name resolves to neither a
// file nor a directory under the templates root.
type TemplateNotFoundError struct {
	// Name is the template name as given by the caller.
	Name string
	// Path is the location that was inspected.
	Path string
	// Reason explains why the name could not be resolved, if not simply absent.
	Reason string
	// Cause is the underlying error if any.
	Cause error
}

// Error implements the error interface.
func (e *TemplateNotFoundError) Error() string {
	msg := fmt.Sprintf("template '%s' not found at %s", e.Name, e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping.
func (e *TemplateNotFoundError) Unwrap() error {
	return e.Cause
}

// NewTemplateNotFoundError creates a new TemplateNotFoundError.
func NewTemplateNotFoundError(name, path string) *TemplateNotFoundError {
	return &TemplateNotFoundError{
		Name: name,
		Path: path,
	}
}

// NewInvalidTemplateNameError creates a TemplateNotFoundError for a name that
// cannot address an entry inside the templates root.
func NewInvalidTemplateNameError(name, path, reason string) *TemplateNotFoundError {
	return &TemplateNotFoundError{
		Name:   name,
		Path:   path,
		Reason: reason,
	}
}
