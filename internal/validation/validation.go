// Package validation checks command-line inputs before a run starts.
package validation

import (
	"fmt"
	"os"

	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/parsererror"
)

// IsValidPath checks if a given path exists and is a file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidSpreadsheet checks that path is an existing .xlsx/.xls file.
func IsValidSpreadsheet(path string) error {
	if path == "" {
		return &parsererror.ValidationError{FilePath: path, Reason: "no file given"}
	}
	if err := IsValidPath(path); err != nil {
		return err
	}
	if !fileutils.FileExists(path) {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a file"}
	}
	if !fileutils.IsSpreadsheet(path) {
		return &parsererror.ValidationError{FilePath: path, Reason: "expected an .xlsx or .xls file"}
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "xlsx", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'xlsx', 'csv'", format)
	}
}
