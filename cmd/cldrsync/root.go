// Root command for the cldrsync CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cldrsync/internal/logging"
	"github.com/mesh-intelligence/cldrsync/internal/paths"
	"github.com/mesh-intelligence/cldrsync/pkg/cldrsync"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagLogLevel  string
	flagLogFormat string
)

// cfg holds the configuration loaded by PersistentPreRunE so all subcommands
// can read it.
var cfg *runConfig

var rootCmd = &cobra.Command{
	Use:     "cldrsync",
	Short:   "cldrsync refreshes the local CLDR data caches",
	Long: `cldrsync discovers the latest published Unicode CLDR release, streams
its core archive, and extracts currency, territory, and BCP-47 registry
data into local SQLite caches for the consuming library to query.`,
	Version:      cldrsync.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(flagLogLevel, flagLogFormat)

		// The version command needs no configuration.
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		cfg, err = loadConfig(configDir)
		return err
	},
	// Bare invocation runs the full pipeline.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "cache directory (default: $(CWD)/.cldrsync-db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDataDir returns the cache directory following the precedence:
// --data-dir flag > config.yaml data_dir > CLDRSYNC_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.DataDir)
}
