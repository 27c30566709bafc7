package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/history"
	"github.com/isoforge/archconf/internal/tui"
)

var selectCmd = &cobra.Command{
	Use:   "select KEY VALUE [file]",
	Short: "Enable one candidate of a single-choice key",
	Long: `Enables VALUE on KEY and disables every other candidate, so the key
resolves to exactly one value. Candidates the key does not list yet are
appended. The file is rewritten in place; disabled candidates and
comments are preserved.

With --pick the candidates are chosen interactively:

  archconf select --pick          pick across every single-choice key
  archconf select KEY --pick      pick a value for KEY`,
	Args: usageArgs(cobra.MaximumNArgs(3)),
	RunE: runSelect,
}

var selectPick bool

// Picker runners are indirected so tests can script the selection.
var (
	flatPicker    = tui.RunPicker
	groupedPicker = tui.RunGroupedPicker
)

func init() {
	selectCmd.Flags().BoolVar(&selectPick, "pick", false, "Choose the value from an interactive list")
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	if selectPick {
		return runSelectPick(args)
	}
	if len(args) < 2 {
		return errors.UsageError("select needs KEY and VALUE, or --pick")
	}
	key, value := args[0], args[1]
	if err := checkKeyArg(key); err != nil {
		return err
	}
	return selectValue(configFileArg(args, 2), key, value)
}

func runSelectPick(args []string) error {
	var key, path string
	switch len(args) {
	case 0:
		path = app.Default.Paths.ConfigFile
	case 1:
		key = args[0]
		path = app.Default.Paths.ConfigFile
	case 2:
		key = args[0]
		path = args[1]
	default:
		return errors.UsageError("--pick takes at most KEY and a file")
	}

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	var opt *tui.Option
	if key != "" {
		if err := checkKeyArg(key); err != nil {
			return err
		}
		if err := checkSelectable(key); err != nil {
			return err
		}
		options, err := pickOptions(doc, key)
		if err != nil {
			return err
		}
		if len(options) == 0 {
			return errors.KeyNotFound(key)
		}
		opt, err = flatPicker("Select "+key, options)
		if err != nil {
			return fmt.Errorf("picker failed: %w", err)
		}
	} else {
		options, err := allPickOptions(doc)
		if err != nil {
			return err
		}
		if len(options) == 0 {
			logInfo("No single-choice keys to pick from")
			return nil
		}
		opt, err = groupedPicker("Select a value", options)
		if err != nil {
			return fmt.Errorf("picker failed: %w", err)
		}
	}
	if opt == nil {
		logInfo("Selection cancelled")
		return nil
	}
	return selectValue(path, opt.Key, opt.Value)
}

// selectValue enables value on key in the document at path and writes
// the result back. The mutated document must resolve before anything
// touches the disk.
func selectValue(path, key, value string) error {
	if err := checkSelectable(key); err != nil {
		return err
	}
	if err := checkAllowedValue(key, value); err != nil {
		return err
	}

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	old := keyState(doc, key)
	if err := doc.Select(key, value); err != nil {
		return errors.ParseFailed(path, err)
	}
	if _, err := resolveConfig(doc, path, false); err != nil {
		return err
	}
	if err := writeDocument(path, doc); err != nil {
		return err
	}

	recordChange(history.OpSelect, path, key, old, value)
	logSuccess("%s = %s in %s", key, value, path)
	return nil
}

// checkSelectable rejects catalog keys whose kind cannot hold a single
// enabled candidate. Keys the catalog does not know are left alone.
func checkSelectable(key string) error {
	k, ok := app.Default.Catalog.Get(key)
	if !ok {
		return nil
	}
	switch k.ConfKind() {
	case conf.CandidateMultiple:
		return errors.UsageError(fmt.Sprintf("%s takes multiple values; use toggle", key))
	case conf.Collection, conf.Scalar:
		return errors.UsageError(fmt.Sprintf("%s is not a candidate key; use set", key))
	}
	return nil
}

func checkAllowedValue(key, value string) error {
	if !app.Default.Catalog.AllowedValue(key, value) {
		k, _ := app.Default.Catalog.Get(key)
		return errors.ValidationFailed(
			fmt.Sprintf("%s must be one of: %s", key, strings.Join(k.Values, ", ")), nil)
	}
	return nil
}

// pickOptions lists key's candidates for the picker: the document's
// own candidates first, then catalog values the document does not
// carry yet (shown as disabled).
func pickOptions(doc *conf.Document, key string) ([]tui.Option, error) {
	var opts []tui.Option
	seen := make(map[string]bool)

	if e, ok := doc.Get(key); ok {
		cands, err := e.Candidates()
		if err != nil {
			return nil, errors.Wrap(errors.ExitParseError, fmt.Sprintf("cannot read candidates of %s", key), err)
		}
		for _, c := range cands {
			seen[c.Value] = true
			opts = append(opts, tui.Option{Key: key, Value: c.Value, Enabled: c.Enabled})
		}
	}
	if k, ok := app.Default.Catalog.Get(key); ok {
		for _, v := range k.Values {
			if !seen[v] {
				opts = append(opts, tui.Option{Key: key, Value: v})
			}
		}
	}
	return opts, nil
}

// allPickOptions gathers candidates of every single-choice key the
// catalog knows, for the grouped picker.
func allPickOptions(doc *conf.Document) ([]tui.Option, error) {
	var all []tui.Option
	for _, k := range app.Default.Catalog.Keys() {
		if k.ConfKind() != conf.CandidateSingle {
			continue
		}
		opts, err := pickOptions(doc, k.Name)
		if err != nil {
			return nil, err
		}
		all = append(all, opts...)
	}
	return all, nil
}
