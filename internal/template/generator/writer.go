package generator

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/debug"
)

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile writes content to a file with the specified permissions.
	WriteFile(path string, content []byte, mode os.FileMode) error

	// CreateDir creates a directory and any necessary parent directories.
	CreateDir(path string) error

	// Exists checks if a file or directory exists at the given path.
	Exists(path string) (bool, error)
}

// FileWriter implements Writer on an afero filesystem.
type FileWriter struct {
	fs afero.Fs
}

// NewFileWriter creates a new FileWriter.
func NewFileWriter(fs afero.Fs) Writer {
	return &FileWriter{fs: fs}
}

// WriteFile writes content to path, creating parent directories as needed.
// The source permission bits are kept, with owner read/write forced.
// Writes atomically through a uniquely named temporary file in the same
// directory, so no other file next to path is touched.
func (w *FileWriter) WriteFile(path string, content []byte, mode os.FileMode) error {
	fileMode := mode.Perm() | 0o600
	debug.Debug("[generator] Writing file: %s (size: %d bytes, mode: %o)", path, len(content), fileMode)

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := w.CreateDir(dir); err != nil {
			return err
		}
	}

	f, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+".qgen-*")
	if err != nil {
		return newFileSystemError(FileSystemWrite, "failed to create temporary file", path, err)
	}
	tempFile := f.Name()

	_, err = f.Write(content)
	closeErr := f.Close()

	if err != nil {
		_ = w.fs.Remove(tempFile)
		return newFileSystemError(FileSystemWrite, "failed to write file content", path, err)
	}
	if closeErr != nil {
		_ = w.fs.Remove(tempFile)
		return newFileSystemError(FileSystemWrite, "failed to close file", path, closeErr)
	}

	if err := w.fs.Chmod(tempFile, fileMode); err != nil {
		_ = w.fs.Remove(tempFile)
		return newFileSystemError(FileSystemWrite, "failed to set file mode", path, err)
	}

	if err := w.fs.Rename(tempFile, path); err != nil {
		_ = w.fs.Remove(tempFile)
		return newFileSystemError(FileSystemWrite, "failed to rename temporary file", path, err)
	}

	return nil
}

// CreateDir creates a directory and any necessary parent directories.
func (w *FileWriter) CreateDir(path string) error {
	if err := w.fs.MkdirAll(path, 0o755); err != nil {
		return newFileSystemError(FileSystemMkdir, "failed to create directory", path, err)
	}
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (w *FileWriter) Exists(path string) (bool, error) {
	ok, err := afero.Exists(w.fs, path)
	if err != nil {
		return false, newFileSystemError(FileSystemRead, "failed to check destination", path, err)
	}
	return ok, nil
}
