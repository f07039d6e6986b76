package common

import (
	"fmt"
	"os"

	"fitcheck/internal/errors"
	"fitcheck/internal/utils"
)

// HandleOutput writes content to outputFile, or to stdout when no file
// is given.
func HandleOutput(content, outputFile string) error {
	if outputFile == "" {
		fmt.Println(content)
		return nil
	}

	if err := utils.ValidateOutputPath(outputFile); err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to write output file: %s", outputFile), err)
	}
	return nil
}
