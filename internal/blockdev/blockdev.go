// Package blockdev enumerates block devices for the wizard and the
// environment checks. It shells out to lsblk through the system
// executor so tests can inject canned output.
package blockdev

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/isoforge/archconf/internal/system"
)

// Device is one installable disk.
type Device struct {
	Path  string // /dev/nvme0n1
	Size  string // human-readable, as reported by lsblk
	Model string
}

// String renders the device for menus and logs.
func (d Device) String() string {
	if d.Model == "" {
		return fmt.Sprintf("%s (%s)", d.Path, d.Size)
	}
	return fmt.Sprintf("%s (%s, %s)", d.Path, d.Size, d.Model)
}

// lsblk --json shapes
type lsblkOutput struct {
	BlockDevices []lsblkDevice `json:"blockdevices"`
}

type lsblkDevice struct {
	Name  string `json:"name"`
	Size  string `json:"size"`
	Type  string `json:"type"`
	Model string `json:"model"`
}

// List returns the disks lsblk reports, loop and rom devices filtered
// out. Paths are absolute /dev paths.
func List(ctx context.Context, exec system.CommandExecutor) ([]Device, error) {
	out, err := exec.Execute(ctx, "lsblk", "--json", "-d", "-o", "NAME,SIZE,TYPE,MODEL")
	if err != nil {
		return nil, fmt.Errorf("lsblk failed: %w", err)
	}

	var parsed lsblkOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %w", err)
	}

	var devices []Device
	for _, d := range parsed.BlockDevices {
		if d.Type != "disk" {
			continue
		}
		devices = append(devices, Device{
			Path:  "/dev/" + d.Name,
			Size:  d.Size,
			Model: strings.TrimSpace(d.Model),
		})
	}

	return devices, nil
}
