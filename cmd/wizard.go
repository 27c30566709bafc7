package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/blockdev"
	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/history"
	"github.com/isoforge/archconf/internal/logging"
	"github.com/isoforge/archconf/internal/profile"
	"github.com/isoforge/archconf/internal/system"
	"github.com/isoforge/archconf/internal/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard [file]",
	Short: "Build a configuration interactively",
	Long: `Walks through the install questions step by step and writes the
answers to the configuration file. An existing file seeds the wizard's
defaults and keeps its comments and disabled candidates; keys the
wizard does not ask about are left untouched. Nothing is written until
the final confirmation.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runWizard,
}

// wizardRunner is indirected so tests can supply answers without a TTY.
var wizardRunner = tui.RunWizard

func init() {
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	path := configFileArg(args, 0)

	devices, err := blockdev.List(cmd.Context(), system.DefaultExecutor())
	if err != nil {
		logging.Warn("device enumeration failed", "error", err)
		devices = nil
	}

	defaults := tui.DefaultAnswers()
	doc := &conf.Document{}
	if system.DefaultFS().Exists(path) {
		doc, err = loadDocument(path)
		if err != nil {
			return err
		}
		if cfg, err := resolveConfig(doc, path, false); err == nil {
			if prof, decErr := profile.Decode(cfg); decErr == nil {
				overlayAnswers(&defaults, prof, cfg)
			}
		}
	}

	answers, err := wizardRunner(devices, defaults)
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	if answers == nil {
		logInfo("Wizard cancelled, nothing written")
		return nil
	}

	if err := applyAnswers(doc, answers); err != nil {
		return err
	}
	if _, err := resolveConfig(doc, path, false); err != nil {
		return err
	}
	if err := writeDocument(path, doc); err != nil {
		return err
	}

	recordChange(history.OpWizard, path, "", "", "")
	logSuccess("Wrote %s", path)
	return nil
}

// overlayAnswers copies values an existing configuration already holds
// onto the wizard defaults. cfg decides presence for the booleans,
// whose zero value is indistinguishable from "unset" on the profile.
func overlayAnswers(a *tui.Answers, p *profile.Profile, cfg *conf.Config) {
	if p.Device != "" {
		a.Device = p.Device
	}
	if p.FileSystemType != "" {
		a.FileSystem = p.FileSystemType
	}
	if p.PartitionScheme != "" {
		a.Scheme = p.PartitionScheme
	}
	if p.BootSize != "" {
		a.BootSize = p.BootSize
	}
	if p.RootSize != "" {
		a.RootSize = p.RootSize
	}
	if p.SwapSize != "" {
		a.SwapSize = p.SwapSize
	}
	if p.Bootloader != "" {
		a.Bootloader = p.Bootloader
	}
	if len(p.Kernels) > 0 {
		a.Kernels = p.Kernels
	}
	if p.Hostname != "" {
		a.Hostname = p.Hostname
	}
	if p.UserName != "" {
		a.UserName = p.UserName
	}
	if p.UserShell != "" {
		a.UserShell = p.UserShell
	}
	if p.Timezone != "" {
		a.Timezone = p.Timezone
	}
	if len(p.MirrorRegions) > 0 {
		a.MirrorRegions = p.MirrorRegions
	}
	if _, ok := cfg.Get("ENABLE_NTP"); ok {
		a.EnableNTP = p.EnableNTP
	}
	if _, ok := cfg.Get("USE_REFLECTOR"); ok {
		a.UseReflector = p.UseReflector
	}
}

// applyAnswers writes the wizard's answers into the document. Choice
// keys keep their unpicked candidates disabled; plain keys are set
// outright.
func applyAnswers(doc *conf.Document, a *tui.Answers) error {
	if err := selectCandidate(doc, "DEVICE", a.Device); err != nil {
		return err
	}
	if err := selectCandidate(doc, "FILE_SYSTEM_TYPE", a.FileSystem); err != nil {
		return err
	}
	if err := selectCandidate(doc, "PARTITION_SCHEME", a.Scheme); err != nil {
		return err
	}
	doc.SetScalar("BOOT_SIZE", a.BootSize)
	doc.SetScalar("ROOT_SIZE", a.RootSize)
	doc.SetScalar("SWAP_SIZE", a.SwapSize)
	if err := selectCandidate(doc, "BOOTLOADER", a.Bootloader); err != nil {
		return err
	}
	if err := setMultiChoice(doc, "KERNELS", a.Kernels); err != nil {
		return err
	}
	doc.SetScalar("HOSTNAME", a.Hostname)
	doc.SetScalar("USER_NAME", a.UserName)
	if err := selectCandidate(doc, "USER_SHELL", a.UserShell); err != nil {
		return err
	}
	doc.SetScalar("TIMEZONE", a.Timezone)
	doc.SetScalar("ENABLE_NTP", yesNo(a.EnableNTP))
	doc.SetScalar("USE_REFLECTOR", yesNo(a.UseReflector))
	if len(a.MirrorRegions) > 0 || doc.Has("MIRROR_REGIONS") {
		if err := setMultiChoice(doc, "MIRROR_REGIONS", a.MirrorRegions); err != nil {
			return err
		}
	}
	return nil
}

// selectCandidate enables value on key. A key the document does not
// carry yet is seeded with the catalog's full menu, so the written
// file shows the alternatives as disabled candidates.
func selectCandidate(doc *conf.Document, key, value string) error {
	if !doc.Has(key) {
		if k, ok := app.Default.Catalog.Get(key); ok && len(k.Values) > 0 {
			doc.SetScalar(key, candidateMenu(k.Values, map[string]bool{value: true}))
			return nil
		}
	}
	return doc.Select(key, value)
}

// setMultiChoice rebuilds a multi-choice key's candidate list:
// candidates already in the document keep their position, catalog
// values and new picks the document lacks are appended, and exactly
// the picked set ends up enabled.
func setMultiChoice(doc *conf.Document, key string, picked []string) error {
	on := make(map[string]bool, len(picked))
	for _, p := range picked {
		on[p] = true
	}

	var values []string
	seen := make(map[string]bool)
	if e, ok := doc.Get(key); ok {
		cands, err := e.Candidates()
		if err != nil {
			return err
		}
		for _, c := range cands {
			values = append(values, c.Value)
			seen[c.Value] = true
		}
	}
	if k, ok := app.Default.Catalog.Get(key); ok {
		for _, v := range k.Values {
			if !seen[v] {
				values = append(values, v)
				seen[v] = true
			}
		}
	}
	for _, p := range picked {
		if !seen[p] {
			values = append(values, p)
		}
	}

	doc.SetScalar(key, candidateMenu(values, on))
	return nil
}

// candidateMenu renders values as a candidate list with everything
// outside on prefixed by the disable sentinel.
func candidateMenu(values []string, on map[string]bool) string {
	toks := make([]string, len(values))
	for i, v := range values {
		if on[v] {
			toks[i] = v
		} else {
			toks[i] = "!" + v
		}
	}
	return strings.Join(toks, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
