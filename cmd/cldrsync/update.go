// The update command: discover, fetch, extract.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cldrsync/internal/extract"
	"github.com/mesh-intelligence/cldrsync/internal/fetch"
)

// Transport budgets. Probes are tiny HEAD requests; the archive download is
// tens of megabytes and gets a far larger allowance.
const (
	probeTimeout    = 30 * time.Second
	downloadTimeout = 15 * time.Minute
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the latest CLDR release and rebuild the local caches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd.Context())
	},
}

// runUpdate executes the full pipeline: version discovery, archive fetch,
// and dataset extraction into the resolved cache directory.
func runUpdate(ctx context.Context) error {
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	locator := &fetch.Locator{
		Client:    &http.Client{Timeout: probeTimeout},
		Template:  cfg.BaseURL + "/%d/core.zip",
		Start:     cfg.StartVersion,
		MaxProbes: cfg.MaxProbes,
	}
	version, err := locator.Locate(ctx)
	if err != nil {
		return fmt.Errorf("discover latest version: %w", err)
	}
	slog.Info("discovered latest release", "version", version.Number, "url", version.URL)

	archive, err := fetch.FetchArchive(ctx, &http.Client{Timeout: downloadTimeout}, version)
	if err != nil {
		return fmt.Errorf("fetch archive: %w", err)
	}
	defer archive.Close()
	slog.Info("archive spooled", "members", len(archive.Members()))

	if err := extract.Run(archive, dataDir); err != nil {
		return fmt.Errorf("extraction finished with failures: %w", err)
	}
	slog.Info("caches updated", "data_dir", dataDir)
	return nil
}
