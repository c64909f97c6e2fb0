package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vacancycli/internal/errors"
)

// Allowed output extensions, lower case with the leading dot
var (
	SpreadsheetExtensions = []string{".xlsx"}
	ChartExtensions       = []string{".png", ".jpg", ".jpeg"}
	CSVExtensions         = []string{".csv"}
)

// FileValidator checks input and output paths before any file is touched
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path exists, is a regular file and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return errors.NewNotFoundError(path).WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return errors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil).WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile validates the vacancy input. A non-.csv extension only warns.
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if !HasExtension(path, CSVExtensions) {
		v.logger.Warn("Input file does not have a .csv extension",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
	}
	return nil
}

// ValidateOutputPath rejects a destination with the wrong extension, then one
// that already exists. Nothing is created.
func (v *FileValidator) ValidateOutputPath(path string, allowed []string) error {
	if !HasExtension(path, allowed) {
		v.logger.Error("Unsupported output file type",
			slog.String("file", path),
			slog.Any("allowed", allowed))
		return errors.NewFileTypeError(path, allowed)
	}

	if _, err := os.Lstat(path); err == nil {
		v.logger.Error("Output file already exists",
			slog.String("file", path))
		return errors.NewFileExistsError(path)
	} else if !os.IsNotExist(err) {
		return errors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err).WithContext("path", path)
	}

	return nil
}

// ValidateOutputDirectory ensures the directory holding path exists
func (v *FileValidator) ValidateOutputDirectory(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err).
			WithContext("path", dir)
	}
	return nil
}

// HasExtension reports whether path ends in one of allowed, ignoring case
func HasExtension(path string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
