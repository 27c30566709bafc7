package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/fetch"
	"github.com/isoforge/archconf/internal/history"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch BASE_URL [dir]",
	Short: "Download the installer file set",
	Long: `Downloads archconf.conf, preinstall.sh, install.sh, and
postinstall.sh from BASE_URL into a directory (default "."). Existing
files are overwritten, scripts land executable, and the first failure
aborts the run. Transfers are retried on transient errors but the
downloads are not checksummed.`,
	Args: usageArgs(cobra.RangeArgs(1, 2)),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	baseURL := args[0]
	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}

	f := fetch.New(baseURL, dir)
	f.Progress = func(name string) {
		logSuccess("fetched %s", name)
	}

	if err := f.Run(cmd.Context()); err != nil {
		return errors.FetchFailed("fetch failed", err)
	}

	recordChange(history.OpFetch, filepath.Join(dir, "archconf.conf"), "", "", baseURL)
	logSuccess("Fetched %d files into %s", len(fetch.Manifest), dir)
	return nil
}
