package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "chanplot"

// Workspace holds the locations chanplot reads from and writes to
type Workspace struct {
	ConfigDir  string
	ConfigPath string
	EnvPath    string
	WorkDir    string
}

// New resolves XDG-compliant paths for the config and the current
// working directory for relative outputs
func New() (*Workspace, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	return &Workspace{
		ConfigDir:  configDir,
		ConfigPath: filepath.Join(configDir, "config.yaml"),
		EnvPath:    filepath.Join(configDir, ".env"),
		WorkDir:    wd,
	}, nil
}

// getConfigDir follows the XDG Base Directory specification on Unix
// and uses AppData on Windows
func getConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

// EnvFiles lists the .env files to load, nearest first. godotenv never
// overrides a variable that is already set, so the first file wins.
func (w *Workspace) EnvFiles() []string {
	var files []string
	for _, f := range []string{filepath.Join(w.WorkDir, ".env"), w.EnvPath} {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	return files
}

// OutputPath resolves the chart directory against the working directory
func (w *Workspace) OutputPath(dir string) string {
	if dir == "" {
		dir = "out"
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(w.WorkDir, dir)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func (w *Workspace) EnsureConfigDir() error {
	if err := os.MkdirAll(w.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.ConfigDir, err)
	}
	return nil
}
