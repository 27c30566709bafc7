package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/profile"
	"github.com/isoforge/archconf/internal/watch"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a configuration parses and resolves",
	Long: `Parses the configuration, resolves every key in declaration order,
and validates the resulting install profile. Any parse error, cardinality
conflict, unbound $KEY reference, or invalid field value fails the whole
file; there is no partial result.

With --strict, unknown keys, duplicate assignments, and missing required
keys are errors too. With --watch, the file is re-validated on every
save until interrupted.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runValidate,
}

var (
	validateStrict bool
	validateWatch  bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Reject unknown keys, duplicates, and missing required keys")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate whenever the file changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := configFileArg(args, 0)

	if !validateWatch {
		return validateFile(path)
	}

	report := func(p string) error {
		if err := validateFile(p); err != nil {
			logError("%v", err)
			return err
		}
		return nil
	}
	report(path)

	logInfo("Watching %s for changes (ctrl-c to stop)", path)
	return watch.Watch(cmd.Context(), path, report)
}

func validateFile(path string) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(doc, path, validateStrict)
	if err != nil {
		return err
	}

	prof, err := profile.Decode(cfg)
	if err != nil {
		return errors.ValidationFailed("failed to decode profile", err)
	}
	if err := prof.Validate(app.Default.Catalog); err != nil {
		return errors.ValidationFailed("invalid configuration", err)
	}

	if validateStrict {
		if missing := app.Default.Catalog.MissingRequired(cfg); len(missing) > 0 {
			return errors.ValidationFailed(
				fmt.Sprintf("missing required keys: %s", strings.Join(missing, ", ")), nil)
		}
	}

	logSuccess("%s: %d keys resolve", path, cfg.Len())
	return nil
}
