// Config loading for the cldrsync CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/cldrsync/internal/fetch"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDataDir      = "data_dir"
	cfgKeyBaseURL      = "base_url"
	cfgKeyStartVersion = "start_version"
	cfgKeyMaxProbes    = "max_probes"

	defaultBaseURL = "https://unicode.org/Public/cldr"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# cldrsync configuration

# Release area probed for core.zip archives.
base_url: https://unicode.org/Public/cldr

# First version number probed during discovery.
start_version: 29

# Discovery gives up after this many consecutive confirmed versions.
max_probes: 256

# Cache directory (optional; overridable by --data-dir flag)
# data_dir:
`

// runConfig is the effective configuration for one invocation.
type runConfig struct {
	DataDir      string
	BaseURL      string
	StartVersion int
	MaxProbes    int
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run; a missing config.yaml is not an error.
func loadConfig(configDir string) (*runConfig, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBaseURL, defaultBaseURL)
	v.SetDefault(cfgKeyStartVersion, fetch.DefaultStart)
	v.SetDefault(cfgKeyMaxProbes, fetch.DefaultMaxProbes)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &runConfig{
		DataDir:      v.GetString(cfgKeyDataDir),
		BaseURL:      v.GetString(cfgKeyBaseURL),
		StartVersion: v.GetInt(cfgKeyStartVersion),
		MaxProbes:    v.GetInt(cfgKeyMaxProbes),
	}
	if cfg.StartVersion < 1 {
		return nil, fmt.Errorf("start_version must be positive, got %d", cfg.StartVersion)
	}
	if cfg.MaxProbes < 1 {
		return nil, fmt.Errorf("max_probes must be positive, got %d", cfg.MaxProbes)
	}
	return cfg, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
