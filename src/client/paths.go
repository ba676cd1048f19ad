package client

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Platform-specific directory paths for CLI configuration.

const (
	projectOrg  = "anteater"
	projectName = "eventmap"
)

// ConfigDir returns the config directory:
// ~/.config/anteater/eventmap/ (Unix) or %APPDATA%\anteater\eventmap\ (Windows)
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), projectOrg, projectName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", projectOrg, projectName)
}

// CacheDir returns the cache directory:
// ~/.cache/anteater/eventmap/ (Unix) or %LOCALAPPDATA%\anteater\eventmap\cache\ (Windows)
func CacheDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "cache")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", projectOrg, projectName)
}

// LogDir returns the log directory:
// ~/.local/log/anteater/eventmap/ (Unix) or %LOCALAPPDATA%\anteater\eventmap\log\ (Windows)
func LogDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "log", projectOrg, projectName)
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "cli.yml")
}

// LogFile returns the log file path
func LogFile() string {
	return filepath.Join(LogDir(), "cli.log")
}

// EnsureDirs creates all CLI directories with correct permissions.
// Called on startup before any file operations.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		CacheDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return NewConfigError(fmt.Sprintf("failed to create directory %s: %v", dir, err))
		}
	}
	return nil
}
