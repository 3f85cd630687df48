// Package paths resolves configuration and data directory locations for the
// cldrsync tool, and maps dataset names to their SQLite cache files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative data directory name used when no override is active.
const DefaultDataDirName = ".cldrsync-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CLDRSYNC_CONFIG_DIR"
	EnvDataDir   = "CLDRSYNC_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/cldrsync (fallback ~/.config/cldrsync)
// macOS:   ~/Library/Application Support/cldrsync
// Windows: %APPDATA%/cldrsync
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "cldrsync"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "cldrsync"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "cldrsync"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CLDRSYNC_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > CLDRSYNC_DATA_DIR env > $(CWD)/.cldrsync-db.
//
// The CWD-relative default keeps freshly extracted caches next to the
// invocation site, which is what the consuming library expects during
// development.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// CacheFile returns the SQLite cache file path for a dataset family,
// e.g. CacheFile("/data", "currency") == "/data/currency.sqlite3".
func CacheFile(dataDir, name string) string {
	return filepath.Join(dataDir, name+".sqlite3")
}
