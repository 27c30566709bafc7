package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/isoforge/archconf/internal/blockdev"
	"github.com/isoforge/archconf/internal/profile"
)

// wizardStep identifies the current step.
type wizardStep int

const (
	stepDevice wizardStep = iota
	stepFilesystem
	stepScheme
	stepSizes
	stepBootloader
	stepKernels
	stepHostname
	stepUsername
	stepShell
	stepTimezone
	stepOptions
	stepConfirm
	stepCount
)

var stepTitles = [stepCount]string{
	"Device",
	"Filesystem",
	"Partition scheme",
	"Partition sizes",
	"Bootloader",
	"Kernels",
	"Hostname",
	"User",
	"Shell",
	"Timezone",
	"Mirrors and clock",
	"Confirm",
}

// optionField identifies a field in the mirrors-and-clock step.
type optionField int

const (
	optNTP optionField = iota
	optReflector
	optMirrors
	optFieldCount
)

// Answers collects everything the wizard asks for.
type Answers struct {
	Device        string
	FileSystem    string
	Scheme        string
	BootSize      string
	RootSize      string
	SwapSize      string
	Bootloader    string
	Kernels       []string
	Hostname      string
	UserName      string
	UserShell     string
	Timezone      string
	MirrorRegions []string
	EnableNTP     bool
	UseReflector  bool
}

// DefaultAnswers is the starting point for a fresh configuration.
func DefaultAnswers() Answers {
	return Answers{
		FileSystem: "ext4",
		Scheme:     "single-root",
		BootSize:   "512M",
		RootSize:   "100%",
		SwapSize:   "8G",
		Bootloader: "systemd-boot",
		Kernels:    []string{"linux"},
		UserShell:  "bash",
		Timezone:   systemTimezone(),
		EnableNTP:  true,
	}
}

// choiceItem implements list.Item for fixed choices.
type choiceItem struct {
	name        string
	description string
}

func (c choiceItem) Title() string       { return c.name }
func (c choiceItem) Description() string { return c.description }
func (c choiceItem) FilterValue() string { return c.name }

// deviceItem implements list.Item for target disks.
type deviceItem struct {
	dev blockdev.Device
}

func (d deviceItem) Title() string { return d.dev.Path }

func (d deviceItem) Description() string {
	if d.dev.Model == "" {
		return d.dev.Size
	}
	return d.dev.Size + " | " + d.dev.Model
}

func (d deviceItem) FilterValue() string { return d.dev.Path }

var (
	fsChoices = []choiceItem{
		{"ext4", "Stable default, widely supported"},
		{"btrfs", "Copy-on-write with snapshots and subvolumes"},
		{"xfs", "High-throughput journaling filesystem"},
	}

	schemeChoices = []choiceItem{
		{"single-root", "One partition for everything after the ESP"},
		{"discrete", "Separate boot, root and swap partitions"},
	}

	bootloaderChoices = []choiceItem{
		{"systemd-boot", "Simple UEFI boot manager (UEFI only)"},
		{"grub", "Works on BIOS and UEFI, more configurable"},
	}

	shellChoices = []choiceItem{
		{"bash", "The GNU Bourne-again shell"},
		{"zsh", "Extended Bourne shell with rich completion"},
		{"fish", "Friendly interactive shell"},
	}

	// kernelChoices are the kernels the installer offers.
	kernelChoices = []string{"linux", "linux-lts", "linux-zen", "linux-hardened"}
)

// wizardModel drives the multi-step configuration wizard.
type wizardModel struct {
	step    wizardStep
	answers Answers

	// Step 1: device
	devices     []blockdev.Device
	deviceList  list.Model
	deviceInput textinput.Model // manual entry when no devices were found

	// Choice lists
	fsList     list.Model
	schemeList list.Model
	bootList   list.Model
	shellList  list.Model

	// Step 4: sizes
	bootInput  textinput.Model
	rootInput  textinput.Model
	swapInput  textinput.Model
	sizeCursor int

	// Step 6: kernels
	kernelCursor int
	kernelPicked map[string]bool

	// Text steps
	hostInput textinput.Model
	userInput textinput.Model
	tzInput   textinput.Model

	// Step 11: mirrors and clock
	optCursor    optionField
	enableNTP    bool
	useReflector bool
	mirrorInput  textinput.Model

	width  int
	height int
}

// wizardStyles
var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	wizardStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardActiveStepStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	wizardLabelStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	wizardValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func newWizardModel(devices []blockdev.Device, defaults Answers) wizardModel {
	w := wizardModel{
		step:         stepDevice,
		answers:      defaults,
		devices:      devices,
		kernelPicked: make(map[string]bool),
		enableNTP:    defaults.EnableNTP,
		useReflector: defaults.UseReflector,
	}

	for _, k := range defaults.Kernels {
		w.kernelPicked[k] = true
	}

	if len(devices) > 0 {
		items := make([]list.Item, len(devices))
		selected := 0
		for i, d := range devices {
			items[i] = deviceItem{dev: d}
			if d.Path == defaults.Device {
				selected = i
			}
		}
		w.deviceList = newChoiceList(items)
		w.deviceList.Select(selected)
	} else {
		di := textinput.New()
		di.Placeholder = "/dev/nvme0n1"
		di.CharLimit = 128
		di.Width = 40
		di.SetValue(defaults.Device)
		di.Focus()
		w.deviceInput = di
	}

	w.fsList = newChoiceListFrom(fsChoices, defaults.FileSystem)
	w.schemeList = newChoiceListFrom(schemeChoices, defaults.Scheme)
	w.bootList = newChoiceListFrom(bootloaderChoices, defaults.Bootloader)
	w.shellList = newChoiceListFrom(shellChoices, defaults.UserShell)

	bi := textinput.New()
	bi.Placeholder = "512M"
	bi.CharLimit = 16
	bi.Width = 16
	bi.SetValue(defaults.BootSize)
	w.bootInput = bi

	ri := textinput.New()
	ri.Placeholder = "30G"
	ri.CharLimit = 16
	ri.Width = 16
	ri.SetValue(defaults.RootSize)
	w.rootInput = ri

	si := textinput.New()
	si.Placeholder = "8G, empty for no swap"
	si.CharLimit = 16
	si.Width = 24
	si.SetValue(defaults.SwapSize)
	w.swapInput = si

	hi := textinput.New()
	hi.Placeholder = "archbox"
	hi.CharLimit = 63
	hi.Width = 40
	hi.SetValue(defaults.Hostname)
	w.hostInput = hi

	ui := textinput.New()
	ui.Placeholder = "arch"
	ui.CharLimit = 32
	ui.Width = 40
	ui.SetValue(defaults.UserName)
	w.userInput = ui

	ti := textinput.New()
	ti.Placeholder = "Europe/Berlin"
	ti.CharLimit = 64
	ti.Width = 40
	ti.ShowSuggestions = true
	ti.SetValue(defaults.Timezone)
	w.tzInput = ti

	mi := textinput.New()
	mi.Placeholder = "Germany France"
	mi.CharLimit = 256
	mi.Width = 50
	mi.SetValue(strings.Join(defaults.MirrorRegions, " "))
	w.mirrorInput = mi

	return w
}

// newChoiceList builds a compact list without chrome.
func newChoiceList(items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 60, 12)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}

func newChoiceListFrom(choices []choiceItem, selected string) list.Model {
	items := make([]list.Item, len(choices))
	idx := 0
	for i, c := range choices {
		items[i] = c
		if c.name == selected {
			idx = i
		}
	}
	l := newChoiceList(items)
	l.Select(idx)
	return l
}

func (w *wizardModel) Init() tea.Cmd {
	if len(w.devices) == 0 {
		return textinput.Blink
	}
	return nil
}

func (w *wizardModel) setSize(width, height int) {
	w.width = width
	w.height = height

	lists := []*list.Model{&w.fsList, &w.schemeList, &w.bootList, &w.shellList}
	if len(w.devices) > 0 {
		lists = append(lists, &w.deviceList)
	}
	for _, l := range lists {
		if width > 0 {
			l.SetWidth(width - 4)
		}
		if height > 10 {
			l.SetHeight(height - 10)
		}
	}
}

// Update processes a message and returns (done, answers, cmd).
// done=true with non-nil answers means the wizard completed.
// done=true with nil answers means the wizard was cancelled.
func (w *wizardModel) Update(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return true, nil, nil
		case tea.KeyEsc:
			return w.handleBack()
		}
	}

	switch w.step {
	case stepDevice:
		return w.updateDevice(msg)
	case stepFilesystem:
		return w.updateFilesystem(msg)
	case stepScheme:
		return w.updateScheme(msg)
	case stepSizes:
		return w.updateSizes(msg)
	case stepBootloader:
		return w.updateBootloader(msg)
	case stepKernels:
		return w.updateKernels(msg)
	case stepHostname:
		return w.updateHostname(msg)
	case stepUsername:
		return w.updateUsername(msg)
	case stepShell:
		return w.updateShell(msg)
	case stepTimezone:
		return w.updateTimezone(msg)
	case stepOptions:
		return w.updateOptions(msg)
	case stepConfirm:
		return w.updateConfirm(msg)
	}

	return false, nil, nil
}

func (w *wizardModel) handleBack() (bool, *Answers, tea.Cmd) {
	switch w.step {
	case stepDevice:
		// Esc at the first step cancels the wizard
		return true, nil, nil
	case stepFilesystem:
		w.step = stepDevice
		if len(w.devices) == 0 {
			w.deviceInput.Focus()
			return false, nil, textinput.Blink
		}
	case stepScheme:
		w.step = stepFilesystem
	case stepSizes:
		w.blurSizeInputs()
		w.step = stepScheme
	case stepBootloader:
		w.step = stepSizes
		w.sizeCursor = 0
		return false, nil, w.focusSizeField()
	case stepKernels:
		w.step = stepBootloader
	case stepHostname:
		w.hostInput.Blur()
		w.step = stepKernels
	case stepUsername:
		w.userInput.Blur()
		w.step = stepHostname
		w.hostInput.Focus()
		return false, nil, textinput.Blink
	case stepShell:
		w.step = stepUsername
		w.userInput.Focus()
		return false, nil, textinput.Blink
	case stepTimezone:
		w.tzInput.Blur()
		w.step = stepShell
	case stepOptions:
		w.mirrorInput.Blur()
		w.step = stepTimezone
		w.tzInput.Focus()
		return false, nil, textinput.Blink
	case stepConfirm:
		w.step = stepOptions
		w.optCursor = optNTP
	}
	return false, nil, nil
}

func (w *wizardModel) updateDevice(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if len(w.devices) == 0 {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
			path := strings.TrimSpace(w.deviceInput.Value())
			if !profile.ValidDevicePath(path) {
				return false, nil, nil
			}
			w.answers.Device = path
			w.deviceInput.Blur()
			w.step = stepFilesystem
			return false, nil, nil
		}

		var cmd tea.Cmd
		w.deviceInput, cmd = w.deviceInput.Update(msg)
		return false, nil, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if item, ok := w.deviceList.SelectedItem().(deviceItem); ok {
			w.answers.Device = item.dev.Path
			w.step = stepFilesystem
		}
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.deviceList, cmd = w.deviceList.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateFilesystem(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if item, ok := w.fsList.SelectedItem().(choiceItem); ok {
			w.answers.FileSystem = item.name
			w.step = stepScheme
		}
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.fsList, cmd = w.fsList.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateScheme(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if item, ok := w.schemeList.SelectedItem().(choiceItem); ok {
			w.answers.Scheme = item.name
			w.applySchemeDefault()
			w.step = stepSizes
			w.sizeCursor = 0
			return false, nil, w.focusSizeField()
		}
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.schemeList, cmd = w.schemeList.Update(msg)
	return false, nil, cmd
}

// applySchemeDefault swaps the root size default when the scheme
// changes and the user has not typed their own value.
func (w *wizardModel) applySchemeDefault() {
	val := strings.TrimSpace(w.rootInput.Value())
	if val != "" && val != "100%" && val != "30G" {
		return
	}
	if w.answers.Scheme == "discrete" {
		w.rootInput.SetValue("30G")
	} else {
		w.rootInput.SetValue("100%")
	}
}

// sizeFields returns the inputs visible for the chosen scheme. The
// root size only applies to discrete partitioning.
func (w *wizardModel) sizeFields() []*textinput.Model {
	fields := []*textinput.Model{&w.bootInput}
	if w.answers.Scheme == "discrete" {
		fields = append(fields, &w.rootInput)
	}
	return append(fields, &w.swapInput)
}

func (w *wizardModel) sizeLabels() []string {
	labels := []string{"Boot (ESP)"}
	if w.answers.Scheme == "discrete" {
		labels = append(labels, "Root")
	}
	return append(labels, "Swap")
}

func (w *wizardModel) blurSizeInputs() {
	w.bootInput.Blur()
	w.rootInput.Blur()
	w.swapInput.Blur()
}

func (w *wizardModel) focusSizeField() tea.Cmd {
	w.blurSizeInputs()
	fields := w.sizeFields()
	if w.sizeCursor >= len(fields) {
		w.sizeCursor = 0
	}
	fields[w.sizeCursor].Focus()
	return textinput.Blink
}

func (w *wizardModel) sizesValid() bool {
	if !profile.ValidSize(strings.TrimSpace(w.bootInput.Value())) {
		return false
	}
	if w.answers.Scheme == "discrete" && !profile.ValidSize(strings.TrimSpace(w.rootInput.Value())) {
		return false
	}
	if s := strings.TrimSpace(w.swapInput.Value()); s != "" && !profile.ValidSize(s) {
		return false
	}
	return true
}

func (w *wizardModel) updateSizes(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	fields := w.sizeFields()

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			if !w.sizesValid() {
				return false, nil, nil
			}
			w.answers.BootSize = strings.TrimSpace(w.bootInput.Value())
			w.answers.RootSize = strings.TrimSpace(w.rootInput.Value())
			w.answers.SwapSize = strings.TrimSpace(w.swapInput.Value())
			w.blurSizeInputs()
			w.step = stepBootloader
			return false, nil, nil
		case tea.KeyUp, tea.KeyShiftTab:
			w.sizeCursor = (w.sizeCursor - 1 + len(fields)) % len(fields)
			return false, nil, w.focusSizeField()
		case tea.KeyDown, tea.KeyTab:
			w.sizeCursor = (w.sizeCursor + 1) % len(fields)
			return false, nil, w.focusSizeField()
		}
	}

	if w.sizeCursor < len(fields) {
		var cmd tea.Cmd
		*fields[w.sizeCursor], cmd = fields[w.sizeCursor].Update(msg)
		return false, nil, cmd
	}
	return false, nil, nil
}

func (w *wizardModel) updateBootloader(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if item, ok := w.bootList.SelectedItem().(choiceItem); ok {
			w.answers.Bootloader = item.name
			w.step = stepKernels
			w.kernelCursor = 0
		}
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.bootList, cmd = w.bootList.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) pickedKernels() []string {
	var picked []string
	for _, name := range kernelChoices {
		if w.kernelPicked[name] {
			picked = append(picked, name)
		}
	}
	return picked
}

func (w *wizardModel) updateKernels(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			picked := w.pickedKernels()
			if len(picked) == 0 {
				return false, nil, nil
			}
			w.answers.Kernels = picked
			w.step = stepHostname
			w.hostInput.Focus()
			return false, nil, textinput.Blink
		case "j", "down":
			w.kernelCursor = (w.kernelCursor + 1) % len(kernelChoices)
		case "k", "up":
			w.kernelCursor = (w.kernelCursor - 1 + len(kernelChoices)) % len(kernelChoices)
		case " ":
			name := kernelChoices[w.kernelCursor]
			w.kernelPicked[name] = !w.kernelPicked[name]
		}
	}
	return false, nil, nil
}

func (w *wizardModel) updateHostname(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		name := strings.TrimSpace(w.hostInput.Value())
		if !profile.ValidHostname(name) {
			return false, nil, nil
		}
		w.answers.Hostname = name
		w.hostInput.Blur()
		w.step = stepUsername
		w.userInput.Focus()
		return false, nil, textinput.Blink
	}

	var cmd tea.Cmd
	w.hostInput, cmd = w.hostInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateUsername(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		name := strings.TrimSpace(w.userInput.Value())
		if !profile.ValidUserName(name) {
			return false, nil, nil
		}
		w.answers.UserName = name
		w.userInput.Blur()
		w.step = stepShell
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.userInput, cmd = w.userInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateShell(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if item, ok := w.shellList.SelectedItem().(choiceItem); ok {
			w.answers.UserShell = item.name
			w.step = stepTimezone
			w.tzInput.Focus()
			w.updateTimezoneSuggestions()
			return false, nil, textinput.Blink
		}
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.shellList, cmd = w.shellList.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateTimezone(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		tz := strings.TrimSpace(w.tzInput.Value())
		if !profile.ValidTimezone(tz) {
			return false, nil, nil
		}
		w.answers.Timezone = tz
		w.tzInput.Blur()
		w.step = stepOptions
		w.optCursor = optNTP
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.tzInput, cmd = w.tzInput.Update(msg)
	w.updateTimezoneSuggestions()
	return false, nil, cmd
}

func (w *wizardModel) isOptionTextField() bool {
	return w.optCursor == optMirrors
}

func (w *wizardModel) focusOptionField() tea.Cmd {
	w.mirrorInput.Blur()
	if w.isOptionTextField() {
		w.mirrorInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (w *wizardModel) finishOptions() {
	w.answers.EnableNTP = w.enableNTP
	w.answers.UseReflector = w.useReflector
	w.answers.MirrorRegions = splitRegions(w.mirrorInput.Value())
	w.mirrorInput.Blur()
	w.step = stepConfirm
}

func (w *wizardModel) updateOptions(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	// Forward keystrokes when the mirrors field is active
	if w.isOptionTextField() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.Type {
			case tea.KeyEnter:
				w.finishOptions()
				return false, nil, nil
			case tea.KeyUp, tea.KeyShiftTab:
				w.optCursor = (w.optCursor - 1 + optFieldCount) % optFieldCount
				return false, nil, w.focusOptionField()
			case tea.KeyDown, tea.KeyTab:
				w.optCursor = (w.optCursor + 1) % optFieldCount
				return false, nil, w.focusOptionField()
			}
		}

		var cmd tea.Cmd
		w.mirrorInput, cmd = w.mirrorInput.Update(msg)
		return false, nil, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			w.finishOptions()
			return false, nil, nil
		case "j", "down", "tab":
			w.optCursor = (w.optCursor + 1) % optFieldCount
			return false, nil, w.focusOptionField()
		case "k", "up":
			w.optCursor = (w.optCursor - 1 + optFieldCount) % optFieldCount
			return false, nil, w.focusOptionField()
		case " ":
			switch w.optCursor {
			case optNTP:
				w.enableNTP = !w.enableNTP
			case optReflector:
				w.useReflector = !w.useReflector
			}
		}
	}
	return false, nil, nil
}

func (w *wizardModel) updateConfirm(msg tea.Msg) (bool, *Answers, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "y":
			a := w.answers
			return true, &a, nil
		case "n":
			// Restart with fresh defaults
			fresh := newWizardModel(w.devices, DefaultAnswers())
			fresh.width, fresh.height = w.width, w.height
			*w = fresh
			return false, nil, w.Init()
		}
	}
	return false, nil, nil
}

func (w *wizardModel) View() string {
	var b strings.Builder

	b.WriteString(wizardTitleStyle.Render("Arch Install Configuration"))
	b.WriteString("\n")
	b.WriteString(w.progressBar())
	b.WriteString("\n\n")

	switch w.step {
	case stepDevice:
		b.WriteString(wizardLabelStyle.Render("Target device:"))
		b.WriteString("\n")
		if len(w.devices) == 0 {
			b.WriteString(w.deviceInput.View())
			b.WriteString("\n\n")
			b.WriteString(wizardDimStyle.Render("No disks detected; enter a /dev path. The device will be erased."))
		} else {
			b.WriteString(w.deviceList.View())
			b.WriteString("\n")
			b.WriteString(wizardDimStyle.Render("The selected device will be erased during installation."))
		}
	case stepFilesystem:
		b.WriteString(wizardLabelStyle.Render("Root filesystem:"))
		b.WriteString("\n")
		b.WriteString(w.fsList.View())
	case stepScheme:
		b.WriteString(wizardLabelStyle.Render("Partition scheme:"))
		b.WriteString("\n")
		b.WriteString(w.schemeList.View())
	case stepSizes:
		b.WriteString(wizardLabelStyle.Render("Partition sizes:"))
		b.WriteString("\n\n")
		labels := w.sizeLabels()
		for i, f := range w.sizeFields() {
			b.WriteString(w.renderSizeInput(i, labels[i], f))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Sizes like 512M, 30G or 100%. Enter to continue, Esc to go back."))
	case stepBootloader:
		b.WriteString(wizardLabelStyle.Render("Bootloader:"))
		b.WriteString("\n")
		b.WriteString(w.bootList.View())
	case stepKernels:
		b.WriteString(wizardLabelStyle.Render("Kernels:"))
		b.WriteString("\n\n")
		for i, name := range kernelChoices {
			b.WriteString(w.renderKernel(i, name))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Space to toggle, Enter to continue. At least one kernel is required."))
	case stepHostname:
		b.WriteString(wizardLabelStyle.Render("Hostname:"))
		b.WriteString("\n")
		b.WriteString(w.hostInput.View())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Lowercase letters, digits and hyphens."))
	case stepUsername:
		b.WriteString(wizardLabelStyle.Render("Primary user:"))
		b.WriteString("\n")
		b.WriteString(w.userInput.View())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("The account is created with wheel group membership."))
	case stepShell:
		b.WriteString(wizardLabelStyle.Render("Login shell:"))
		b.WriteString("\n")
		b.WriteString(w.shellList.View())
	case stepTimezone:
		b.WriteString(wizardLabelStyle.Render("Timezone:"))
		b.WriteString("\n")
		b.WriteString(w.tzInput.View())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Area/City as under /usr/share/zoneinfo. Tab accepts the suggestion."))
	case stepOptions:
		b.WriteString(wizardLabelStyle.Render("Mirrors and clock:"))
		b.WriteString("\n\n")
		b.WriteString(w.renderToggle(optNTP, w.enableNTP, "NTP time sync", "Run timedatectl set-ntp before installing"))
		b.WriteString("\n")
		b.WriteString(w.renderToggle(optReflector, w.useReflector, "Use reflector", "Rank pacman mirrors by speed first"))
		b.WriteString("\n")
		b.WriteString(w.renderMirrorInput())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Space toggles, Enter continues, Esc goes back."))
	case stepConfirm:
		b.WriteString(w.renderSummary())
	}

	return b.String()
}

func (w *wizardModel) progressBar() string {
	var parts []string
	for i := 0; i < int(stepCount); i++ {
		if i == int(w.step) {
			parts = append(parts, wizardActiveStepStyle.Render("●"))
		} else {
			parts = append(parts, wizardStepStyle.Render("○"))
		}
	}
	bar := strings.Join(parts, "")
	name := fmt.Sprintf(" %d/%d %s", int(w.step)+1, int(stepCount), stepTitles[w.step])
	return bar + wizardActiveStepStyle.Render(name)
}

func (w *wizardModel) renderSizeInput(idx int, label string, ti *textinput.Model) string {
	cursor := " "
	if w.sizeCursor == idx {
		cursor = ">"
	}
	line := fmt.Sprintf("  %s %-12s %s", cursor, label+":", ti.View())
	if w.sizeCursor == idx {
		return selectedStyle.Render(line)
	}
	return line
}

func (w *wizardModel) renderKernel(idx int, name string) string {
	cursor := " "
	if w.kernelCursor == idx {
		cursor = ">"
	}
	checked := " "
	if w.kernelPicked[name] {
		checked = "x"
	}
	line := fmt.Sprintf("  %s [%s] %s", cursor, checked, name)
	if w.kernelCursor == idx {
		return selectedStyle.Render(line)
	}
	return line
}

func (w *wizardModel) renderToggle(field optionField, on bool, name, desc string) string {
	cursor := " "
	if w.optCursor == field {
		cursor = ">"
	}
	checked := " "
	if on {
		checked = "x"
	}

	line := fmt.Sprintf("  %s [%s] %s", cursor, checked, name)
	if w.optCursor == field {
		return selectedStyle.Render(line) + "\n" + wizardDimStyle.Render("      "+desc)
	}
	return line + "\n" + wizardDimStyle.Render("      "+desc)
}

func (w *wizardModel) renderMirrorInput() string {
	cursor := " "
	if w.optCursor == optMirrors {
		cursor = ">"
	}

	if w.optCursor == optMirrors {
		line := fmt.Sprintf("  %s Mirror regions: %s", cursor, w.mirrorInput.View())
		return selectedStyle.Render(line) + "\n" + wizardDimStyle.Render("      Countries reflector pulls mirrors from")
	}

	val := strings.TrimSpace(w.mirrorInput.Value())
	if val == "" {
		val = "(not set)"
	}
	line := fmt.Sprintf("  %s Mirror regions: %s", cursor, val)
	return line + "\n" + wizardDimStyle.Render("      Countries reflector pulls mirrors from")
}

func (w *wizardModel) renderSummary() string {
	var b strings.Builder
	a := w.answers

	b.WriteString(wizardLabelStyle.Render("Confirm:"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Device:     %s\n", wizardValueStyle.Render(a.Device)))
	b.WriteString(fmt.Sprintf("  Filesystem: %s\n", wizardValueStyle.Render(a.FileSystem)))
	b.WriteString(fmt.Sprintf("  Scheme:     %s\n", wizardValueStyle.Render(a.Scheme)))
	sizes := "boot " + a.BootSize
	if a.Scheme == "discrete" {
		sizes += ", root " + a.RootSize
	}
	if a.SwapSize != "" {
		sizes += ", swap " + a.SwapSize
	} else {
		sizes += ", no swap"
	}
	b.WriteString(fmt.Sprintf("  Sizes:      %s\n", wizardValueStyle.Render(sizes)))
	b.WriteString(fmt.Sprintf("  Bootloader: %s\n", wizardValueStyle.Render(a.Bootloader)))
	b.WriteString(fmt.Sprintf("  Kernels:    %s\n", wizardValueStyle.Render(strings.Join(a.Kernels, ", "))))
	b.WriteString(fmt.Sprintf("  Hostname:   %s\n", wizardValueStyle.Render(a.Hostname)))
	b.WriteString(fmt.Sprintf("  User:       %s (%s)\n", wizardValueStyle.Render(a.UserName), a.UserShell))
	b.WriteString(fmt.Sprintf("  Timezone:   %s\n", wizardValueStyle.Render(a.Timezone)))
	ntp := "no"
	if a.EnableNTP {
		ntp = "yes"
	}
	b.WriteString(fmt.Sprintf("  NTP:        %s\n", wizardValueStyle.Render(ntp)))
	if a.UseReflector {
		regions := strings.Join(a.MirrorRegions, ", ")
		if regions == "" {
			regions = "all"
		}
		b.WriteString(fmt.Sprintf("  Reflector:  %s\n", wizardValueStyle.Render(regions)))
	}
	b.WriteString("\n")
	b.WriteString(wizardDimStyle.Render("Enter to write the configuration, n to restart, Esc to go back."))
	return b.String()
}

// commonTimezones feed the timezone input's completion.
var commonTimezones = []string{
	"UTC",
	"America/Chicago", "America/Denver", "America/Los_Angeles",
	"America/Mexico_City", "America/New_York", "America/Sao_Paulo",
	"Asia/Dubai", "Asia/Kolkata", "Asia/Seoul", "Asia/Shanghai",
	"Asia/Singapore", "Asia/Tokyo", "Australia/Sydney",
	"Europe/Amsterdam", "Europe/Berlin", "Europe/Istanbul",
	"Europe/London", "Europe/Madrid", "Europe/Moscow", "Europe/Paris",
	"Europe/Rome", "Europe/Stockholm", "Europe/Warsaw",
	"Pacific/Auckland",
}

func (w *wizardModel) updateTimezoneSuggestions() {
	val := strings.TrimSpace(w.tzInput.Value())
	if val == "" {
		w.tzInput.SetSuggestions(commonTimezones)
		return
	}

	var matches []string
	for _, tz := range commonTimezones {
		if strings.HasPrefix(strings.ToLower(tz), strings.ToLower(val)) {
			matches = append(matches, tz)
		}
	}
	w.tzInput.SetSuggestions(matches)
}

// systemTimezone guesses the host timezone for the default answer.
func systemTimezone() string {
	if data, err := os.ReadFile("/etc/timezone"); err == nil {
		if tz := strings.TrimSpace(string(data)); tz != "" {
			return tz
		}
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):]
		}
	}
	return "UTC"
}

// splitRegions accepts space or comma separated region names.
func splitRegions(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

// wizardProgram adapts wizardModel to tea.Model for standalone runs.
type wizardProgram struct {
	wizard  wizardModel
	answers *Answers
}

func (p *wizardProgram) Init() tea.Cmd {
	return p.wizard.Init()
}

func (p *wizardProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.wizard.setSize(size.Width, size.Height)
		return p, nil
	}

	done, answers, cmd := p.wizard.Update(msg)
	if done {
		p.answers = answers
		return p, tea.Quit
	}
	return p, cmd
}

func (p *wizardProgram) View() string {
	return p.wizard.View()
}

// RunWizard walks through every install question and returns the
// collected answers. A nil result means the user cancelled.
func RunWizard(devices []blockdev.Device, defaults Answers) (*Answers, error) {
	prog := &wizardProgram{wizard: newWizardModel(devices, defaults)}

	if _, err := tea.NewProgram(prog, tea.WithAltScreen()).Run(); err != nil {
		return nil, err
	}
	return prog.answers, nil
}
