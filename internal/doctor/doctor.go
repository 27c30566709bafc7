// Package doctor runs preflight checks against the machine the
// installer configuration is meant for.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/isoforge/archconf/internal/catalog"
	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/fetch"
	"github.com/isoforge/archconf/internal/system"
)

// Status classifies a check result.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// DefaultMirrorURL is probed for network reachability.
const DefaultMirrorURL = "https://geo.mirror.pkgbuild.com"

// RequiredTools must be on PATH for an install run to work at all.
var RequiredTools = []string{"lsblk", "mkfs.ext4", "pacstrap", "arch-chroot"}

// Check is one environment check result.
type Check struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Report aggregates all checks from a doctor run.
type Report struct {
	Checks []Check `json:"checks"`
}

func (r *Report) add(name string, status Status, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: detail})
}

// HasFailures reports whether any check failed outright. Failures mean
// an install cannot proceed; warnings mean it can, degraded.
func (r *Report) HasFailures() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any check produced a warning.
func (r *Report) HasWarnings() bool {
	for _, c := range r.Checks {
		if c.Status == StatusWarn {
			return true
		}
	}
	return false
}

// Checker holds the dependencies the checks probe through. Tests swap
// in mocks; New wires the real ones.
type Checker struct {
	FS         system.FileSystem
	Exec       system.CommandExecutor
	Client     *http.Client
	ConfigFile string
	MirrorURL  string

	// Geteuid defaults to os.Geteuid.
	Geteuid func() int
}

// New returns a Checker against the real system.
func New(configFile string) *Checker {
	return &Checker{
		FS:         system.DefaultFS(),
		Exec:       system.DefaultExecutor(),
		Client:     fetch.NewHTTPClient(),
		ConfigFile: configFile,
		MirrorURL:  DefaultMirrorURL,
		Geteuid:    os.Geteuid,
	}
}

// Run executes every check. The outcome lives in the report; Run
// itself never fails.
func (c *Checker) Run(ctx context.Context) *Report {
	r := &Report{}
	c.checkRoot(r)
	c.checkUEFI(r)
	c.checkTools(r)
	c.checkMirror(ctx, r)
	c.checkNTP(ctx, r)
	c.checkConfig(r)
	return r
}

func (c *Checker) checkRoot(r *Report) {
	if c.Geteuid() == 0 {
		r.add("root", StatusOK, "running as root")
		return
	}
	r.add("root", StatusWarn, "not running as root; partitioning and pacstrap will need it")
}

func (c *Checker) checkUEFI(r *Report) {
	if c.FS.Exists("/sys/firmware/efi") {
		r.add("uefi", StatusOK, "UEFI firmware detected")
		return
	}
	r.add("uefi", StatusWarn, "legacy BIOS boot; systemd-boot is unavailable, use grub")
}

func (c *Checker) checkTools(r *Report) {
	var missing []string
	for _, tool := range RequiredTools {
		if _, err := c.Exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		r.add("tools", StatusFail, "missing: "+strings.Join(missing, ", "))
		return
	}
	r.add("tools", StatusOK, strings.Join(RequiredTools, ", ")+" on PATH")
}

func (c *Checker) checkMirror(ctx context.Context, r *Report) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.MirrorURL, nil)
	if err != nil {
		r.add("mirror", StatusWarn, fmt.Sprintf("bad mirror URL %s: %v", c.MirrorURL, err))
		return
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		r.add("mirror", StatusWarn, fmt.Sprintf("%s unreachable: %v", c.MirrorURL, err))
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		r.add("mirror", StatusWarn, fmt.Sprintf("%s answered %s", c.MirrorURL, resp.Status))
		return
	}
	r.add("mirror", StatusOK, c.MirrorURL+" reachable")
}

func (c *Checker) checkNTP(ctx context.Context, r *Report) {
	out, err := c.Exec.Execute(ctx, "timedatectl", "show", "--property=NTPSynchronized", "--value")
	if err != nil {
		r.add("ntp", StatusWarn, "timedatectl unavailable; clock sync state unknown")
		return
	}
	if strings.TrimSpace(string(out)) == "yes" {
		r.add("ntp", StatusOK, "clock synchronized via NTP")
		return
	}
	r.add("ntp", StatusWarn, "clock not NTP-synchronized; run timedatectl set-ntp true")
}

func (c *Checker) checkConfig(r *Report) {
	if !c.FS.Exists(c.ConfigFile) {
		r.add("config", StatusWarn, fmt.Sprintf("%s not found; run archconf wizard or archconf fetch", c.ConfigFile))
		return
	}

	raw, err := c.FS.ReadFile(c.ConfigFile)
	if err != nil {
		r.add("config", StatusFail, fmt.Sprintf("cannot read %s: %v", c.ConfigFile, err))
		return
	}

	doc, err := conf.Parse(string(raw))
	if err != nil {
		r.add("config", StatusFail, fmt.Sprintf("%s: %v", c.ConfigFile, err))
		return
	}

	cfg, err := conf.Resolve(doc, catalog.Default())
	if err != nil {
		r.add("config", StatusFail, fmt.Sprintf("%s: %v", c.ConfigFile, err))
		return
	}
	r.add("config", StatusOK, fmt.Sprintf("%s resolves (%d keys)", c.ConfigFile, cfg.Len()))
}
