package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the configuration change journal",
	Long: `Lists the changes archconf has made to configuration files, newest
first. Every set, select, toggle, wizard run, and fetch is journaled
with its before and after values.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runHistory,
}

var historyJSON bool

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output entries as JSON Lines")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	entries, err := journal().Entries()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(entries) == 0 {
		logInfo("No changes recorded")
		return nil
	}

	out := cmd.OutOrStdout()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if historyJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal entry: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}
		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		switch {
		case e.Key == "":
			fmt.Fprintf(out, "[%s] %-7s %s\n", ts, e.Op, e.File)
		case e.Old == "":
			fmt.Fprintf(out, "[%s] %-7s %s = %s (%s)\n", ts, e.Op, e.Key, e.New, e.File)
		default:
			fmt.Fprintf(out, "[%s] %-7s %s: %s -> %s (%s)\n", ts, e.Op, e.Key, e.Old, e.New, e.File)
		}
	}
	return nil
}
