// Package utils holds small file and path helpers shared by the CLI.
package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"fitcheck/internal/errors"
)

// ValidateInputFile checks that path exists and is a readable regular file.
func ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("file not found: %s", path), err)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("path is a directory: %s", path), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("file not readable: %s", path), err)
	}
	f.Close()
	return nil
}

// ValidateOutputPath checks that the parent directory of path exists.
func ValidateOutputPath(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("output directory does not exist: %s", dir), err)
	}
	if !info.IsDir() {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("output parent is not a directory: %s", dir), nil)
	}
	return nil
}

// BaseName returns the file name portion of a path, for use as the
// analysis file-name hint.
func BaseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
