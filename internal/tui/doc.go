// Package tui provides the interactive terminal components of archconf.
//
// This package uses the Bubble Tea framework for two surfaces: the
// configuration wizard and the value pickers.
//
// # Wizard
//
// The wizard walks through every install question (device, filesystem,
// partitioning, bootloader, kernels, identity, timezone, mirrors) and
// returns the collected answers:
//
//	answers, err := tui.RunWizard(devices, tui.DefaultAnswers())
//	if answers == nil {
//	    // user cancelled
//	}
//
// # Pickers
//
// Pickers present candidate values for a key. The flat picker lists one
// key's candidates; the grouped picker lists every candidate key with
// group headers that cursor movement skips over:
//
//	opt, err := tui.RunPicker("BOOTLOADER", options)
//	opt, err := tui.RunGroupedPicker("Select a value", options)
//
// A nil option means the user quit without choosing.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
