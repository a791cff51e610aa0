// Package filesys provides the small set of file system operations the
// reconciliation engine needs: creating archive directories on demand,
// checking and reading selection/list files, and creating the single
// output file sink.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates a directory at the specified path with the given
// permissions, used by the Archive multiplexer when a templated path
// expands to a directory that does not yet exist.
//
// If the directory already exists:
//   - If 'force' is true, it proceeds without error.
//   - If 'force' is false, it returns an error.
//
// It also returns an error if the existing path is a file (not a directory).
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force && !os.IsNotExist(err) {
		return err
	}

	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}

	return os.Chmod(dirPath, 0755)
}

// ReadDir expands a glob pattern into matching file paths.
func ReadDir(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// CreateFile opens the file at the specified `filePath` for writing, used
// for the single-file output sink. A missing file is created.
//
// If the file already exists:
//   - If 'force' is true, it truncates and overwrites the existing file.
//   - If 'force' is false, it appends to the existing file.
func CreateFile(filePath string, force bool) (*os.File, error) {
	if force {
		return os.Create(filePath)
	}
	return os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// ReadFile reads the entire content of the file at `filePath`.
func ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// DeleteFile deletes the file at the specified `filePath`.
func DeleteFile(filePath string) error {
	return os.Remove(filePath)
}

// Exists checks if a file or directory at the given `file` path exists.
func Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
