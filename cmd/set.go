package cmd

import (
	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/history"
)

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE [file]",
	Short: "Assign a literal value to a key",
	Long: `Replaces the value of KEY with the literal VALUE, appending the
assignment if the key is absent. The rest of the file, comments
included, is left byte-for-byte untouched. The write is atomic and the
change is journaled.`,
	Args: usageArgs(cobra.RangeArgs(2, 3)),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := checkKeyArg(key); err != nil {
		return err
	}
	path := configFileArg(args, 2)

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	old := keyState(doc, key)
	doc.SetScalar(key, value)

	// The mutated document must still resolve before it is written.
	if _, err := resolveConfig(doc, path, false); err != nil {
		return err
	}
	if err := writeDocument(path, doc); err != nil {
		return err
	}

	recordChange(history.OpSet, path, key, old, value)
	logSuccess("%s set in %s", key, path)
	return nil
}
