package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/conf"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the resolved configuration",
	Long: `Resolves the configuration and prints the effective value of every
key. Disabled candidates are listed with their ! sentinel so the full
menu stays visible. Use --json for machine-readable output.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the resolved configuration as JSON")
	rootCmd.AddCommand(showCmd)
}

// showEntry is the JSON shape of one resolved key.
type showEntry struct {
	Key      string   `json:"key"`
	Kind     string   `json:"kind"`
	Value    string   `json:"value,omitempty"`
	Values   []string `json:"values,omitempty"`
	Disabled []string `json:"disabled,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	path := configFileArg(args, 0)

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(doc, path, false)
	if err != nil {
		return err
	}

	if showJSON {
		entries := make([]showEntry, 0, cfg.Len())
		for _, key := range cfg.Keys() {
			v, _ := cfg.Get(key)
			entries = append(entries, showEntry{
				Key:      key,
				Kind:     v.Kind.String(),
				Value:    v.Scalar(),
				Values:   v.List(),
				Disabled: v.Disabled(),
			})
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tDISABLED")
	fmt.Fprintln(w, "---\t-----\t--------")

	for _, key := range cfg.Keys() {
		v, _ := cfg.Get(key)

		value := v.Scalar()
		if v.Kind == conf.Collection || v.Kind == conf.CandidateMultiple {
			value = strings.Join(v.List(), " ")
		}
		if value == "" {
			value = "-"
		}

		disabled := "-"
		if off := v.Disabled(); len(off) > 0 {
			marked := make([]string, len(off))
			for i, d := range off {
				marked[i] = "!" + d
			}
			disabled = strings.Join(marked, " ")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", key, value, disabled)
	}

	return w.Flush()
}
