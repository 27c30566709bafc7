package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "archconf",
	Short: "Arch installer configuration interpreter",
	Long: `archconf interprets, edits, and validates the declarative
configuration consumed by the Arch installer scripts.

The configuration dialect layers two rules over shell-style KEY="value"
assignments:
  - A value may hold several candidate tokens; a leading ! disables a
    candidate without deleting it.
  - Single-choice keys allow at most one enabled candidate; multi-choice
    keys keep every enabled candidate in order.

Values interpolate $KEY and ${KEY} references to keys declared earlier
in the file. Commands default to ./archconf.conf when no file is given.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.UsageError(err.Error())
	})
}

// usageArgs wraps a positional-arg validator so violations carry the
// usage exit code.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return errors.UsageError(err.Error())
		}
		return nil
	}
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
