package cmd

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/history"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle KEY VALUE [file]",
	Short: "Flip one candidate of a multi-choice key",
	Long: `Toggles the enabled state of VALUE on KEY: an enabled candidate is
disabled, a disabled one is enabled, and a value the key does not list
yet is appended enabled. Other candidates keep their state. The file is
rewritten in place with comments and formatting preserved.`,
	Args: usageArgs(cobra.RangeArgs(2, 3)),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := checkKeyArg(key); err != nil {
		return err
	}
	if err := checkToggleable(key); err != nil {
		return err
	}
	if err := checkAllowedValue(key, value); err != nil {
		return err
	}
	path := configFileArg(args, 2)

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	old := keyState(doc, key)
	if err := doc.Toggle(key, value); err != nil {
		if stderrors.Is(err, conf.ErrKeyNotFound) {
			return errors.KeyNotFound(key)
		}
		return errors.ParseFailed(path, err)
	}
	if _, err := resolveConfig(doc, path, false); err != nil {
		return err
	}
	if err := writeDocument(path, doc); err != nil {
		return err
	}

	recordChange(history.OpToggle, path, key, old, keyState(doc, key))
	logSuccess("%s %s in %s", value, toggleState(doc, key, value), path)
	return nil
}

// checkToggleable rejects catalog keys whose kind does not take
// independent on/off candidates. Unknown keys are left alone.
func checkToggleable(key string) error {
	k, ok := app.Default.Catalog.Get(key)
	if !ok {
		return nil
	}
	switch k.ConfKind() {
	case conf.CandidateSingle:
		return errors.UsageError(fmt.Sprintf("%s holds one value; use select", key))
	case conf.Collection, conf.Scalar:
		return errors.UsageError(fmt.Sprintf("%s is not a candidate key; use set", key))
	}
	return nil
}

func toggleState(doc *conf.Document, key, value string) string {
	e, ok := doc.Get(key)
	if !ok {
		return "toggled"
	}
	cands, err := e.Candidates()
	if err != nil {
		return "toggled"
	}
	for _, c := range cands {
		if c.Value == value {
			if c.Enabled {
				return "enabled"
			}
			return "disabled"
		}
	}
	return "toggled"
}
