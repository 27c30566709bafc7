package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/errors"
)

var getCmd = &cobra.Command{
	Use:   "get KEY [file]",
	Short: "Print the resolved value of one key",
	Long: `Resolves the configuration and prints the effective value of KEY.
Multi-value keys print one enabled value per line. A key the file does
not assign is an error.`,
	Args: usageArgs(cobra.RangeArgs(1, 2)),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if err := checkKeyArg(key); err != nil {
		return err
	}
	path := configFileArg(args, 1)

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(doc, path, false)
	if err != nil {
		return err
	}

	v, ok := cfg.Get(key)
	if !ok {
		return errors.KeyNotFound(key)
	}

	out := cmd.OutOrStdout()
	if v.Kind == conf.Collection || v.Kind == conf.CandidateMultiple {
		for _, s := range v.List() {
			fmt.Fprintln(out, s)
		}
		return nil
	}
	fmt.Fprintln(out, v.Scalar())
	return nil
}
