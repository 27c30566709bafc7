package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/doctor"
	"github.com/isoforge/archconf/internal/errors"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this machine can run an install",
	Long: `Probes the environment an install needs: root privileges, UEFI
firmware, the partitioning and bootstrap tools on PATH, network reach
to a package mirror, and the configuration file itself. Warnings do
not fail the command; hard failures do.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runDoctor,
}

var (
	doctorJSON   bool
	doctorMirror string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output the report as JSON")
	doctorCmd.Flags().StringVar(&doctorMirror, "mirror", doctor.DefaultMirrorURL, "Mirror URL probed for network reachability")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checker := doctor.New(app.Default.Paths.ConfigFile)
	checker.MirrorURL = doctorMirror

	report := checker.Run(cmd.Context())
	out := cmd.OutOrStdout()

	if doctorJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, c := range report.Checks {
			fmt.Fprintf(out, "%s %-8s %s\n", statusIcon(c.Status), c.Name, c.Detail)
		}
	}

	if report.HasFailures() {
		return errors.EnvironmentError("environment is not ready for an install")
	}
	if report.HasWarnings() && !doctorJSON {
		logWarning("Some checks reported warnings")
	}
	return nil
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return "✓"
	case doctor.StatusWarn:
		return "⚠"
	default:
		return "✗"
	}
}
