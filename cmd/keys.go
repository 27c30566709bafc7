package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/app"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the known configuration keys",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tGROUP\tKIND\tREQUIRED\tDESCRIPTION")
	fmt.Fprintln(w, "---\t-----\t----\t--------\t-----------")

	for _, k := range app.Default.Catalog.Keys() {
		required := "-"
		if k.Required {
			required = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", k.Name, k.Group, k.Kind, required, k.Description)
	}

	return w.Flush()
}
