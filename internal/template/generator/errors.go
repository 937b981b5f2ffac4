package generator

import "fmt"

// FileSystemErrorType categorizes filesystem failures.
type FileSystemErrorType int

const (
	// FileSystemRead indicates a file could not be read or inspected.
	FileSystemRead FileSystemErrorType = iota
	// FileSystemWrite indicates a file could not be written.
	FileSystemWrite
	// FileSystemMkdir indicates a directory could not be created.
	FileSystemMkdir
	// FileSystemList indicates a template directory could not be listed.
	FileSystemList
)

// String returns the string representation of the error type.
func (t FileSystemErrorType) String() string {
	switch t {
	case FileSystemRead:
		return "Read"
	case FileSystemWrite:
		return "Write"
	case FileSystemMkdir:
		return "Mkdir"
	case FileSystemList:
		return "List"
	default:
		return "Unknown"
	}
}

// FileSystemError represents a read, write, mkdir or list failure.
// It is fatal for the render call; files already written stay on disk.
type FileSystemError struct {
	// Type categorizes the error.
	Type FileSystemErrorType
	// Message is the error message.
	Message string
	// Path is the file or directory path related to the error.
	Path string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *FileSystemError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (file: %s): %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s (file: %s)", e.Message, e.Path)
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *FileSystemError) Unwrap() error {
	return e.Cause
}

// newFileSystemError creates a new FileSystemError.
func newFileSystemError(typ FileSystemErrorType, message, path string, cause error) *FileSystemError {
	return &FileSystemError{
		Type:    typ,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// PathError indicates that a rendered destination path is unusable:
// absolute, empty, or outside the destination root.
type PathError struct {
	// Path is the rendered path.
	Path string
	// Original is the template-relative source path.
	Original string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("invalid destination path %q (from %q): %s", e.Path, e.Original, e.Message)
}

func newPathError(path, original, message string) *PathError {
	return &PathError{
		Path:     path,
		Original: original,
		Message:  message,
	}
}
