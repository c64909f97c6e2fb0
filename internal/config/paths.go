package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the application directories
type Paths struct {
	ExecutableDir string
	WorkingDir    string
	LogsDir       string
}

// GetPaths returns the application paths. Logs live next to the executable,
// report outputs are resolved against the working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	exeDir := filepath.Dir(exe)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return &Paths{
		ExecutableDir: exeDir,
		WorkingDir:    wd,
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),
	}, nil
}

// EnsureDirectories creates the directories the application writes to
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetLogPath returns filename inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetOutputPath resolves a report output path against the working directory
func (p *Paths) GetOutputPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.WorkingDir, filename)
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.Group("paths",
			slog.String("executable_dir", p.ExecutableDir),
			slog.String("working_dir", p.WorkingDir),
			slog.String("logs_dir", p.LogsDir),
		),
	)
}
