package common

import (
	"fmt"
	"os"
	"unicode/utf8"

	"fitcheck/internal/errors"
	"fitcheck/internal/utils"
)

// maxInputFileSize bounds document reads at 5 MiB.
const maxInputFileSize = 5 << 20

// ReadTextFile loads a plain-text document for analysis.
func ReadTextFile(path string) (string, error) {
	if err := utils.ValidateInputFile(path); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot stat file: %s", path), err)
	}
	if info.Size() > maxInputFileSize {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("file too large: %s (limit %d bytes)", path, maxInputFileSize), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read file: %s", path), err)
	}

	if !utf8.Valid(data) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("file is not valid UTF-8 text: %s", path), nil)
	}

	return string(data), nil
}
