package cmd

import (
	stderrors "errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/isoforge/archconf/internal/blockdev"
	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/history"
	"github.com/isoforge/archconf/internal/system"
	"github.com/isoforge/archconf/internal/testutil"
	"github.com/isoforge/archconf/internal/tui"
)

const lsblkJSON = `{"blockdevices": [
  {"name": "vda", "size": "40G", "type": "disk", "model": "Virt"},
  {"name": "sr0", "size": "1G", "type": "rom", "model": ""}
]}`

func stubWizard(t *testing.T, fn func(devices []blockdev.Device, defaults tui.Answers) (*tui.Answers, error)) {
	t.Helper()
	saved := wizardRunner
	wizardRunner = fn
	t.Cleanup(func() { wizardRunner = saved })
}

func stubLsblk(t *testing.T) *system.MockExecutor {
	t.Helper()
	exec := testutil.InstallMockExecutor(t)
	exec.AddResponse("lsblk --json", []byte(lsblkJSON), nil)
	return exec
}

func TestWizardWritesAnswers(t *testing.T) {
	path := setupEnv(t, "")
	stubLsblk(t)

	var gotDevices []blockdev.Device
	stubWizard(t, func(devices []blockdev.Device, defaults tui.Answers) (*tui.Answers, error) {
		gotDevices = devices
		a := defaults
		a.Device = "/dev/vda"
		a.FileSystem = "btrfs"
		a.Scheme = "discrete"
		a.RootSize = "40G"
		a.Bootloader = "grub"
		a.Kernels = []string{"linux", "linux-lts"}
		a.Hostname = "lab"
		a.UserName = "ops"
		a.UserShell = "fish"
		a.Timezone = "UTC"
		a.MirrorRegions = []string{"Sweden"}
		a.EnableNTP = true
		a.UseReflector = true
		return &a, nil
	})

	out, err := executeCommand(t, "wizard")
	if err != nil {
		t.Fatalf("wizard failed: %v", err)
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("unexpected output: %q", out)
	}

	if len(gotDevices) != 1 || gotDevices[0].Path != "/dev/vda" {
		t.Errorf("devices passed to wizard = %+v", gotDevices)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		"DEVICE=\"/dev/vda\"",
		"FILE_SYSTEM_TYPE=\"!ext4 btrfs !xfs\"",
		"PARTITION_SCHEME=\"!single-root discrete\"",
		"BOOT_SIZE=\"512M\"",
		"ROOT_SIZE=\"40G\"",
		"BOOTLOADER=\"!systemd-boot grub\"",
		"KERNELS=\"linux linux-lts\"",
		"HOSTNAME=\"lab\"",
		"USER_NAME=\"ops\"",
		"USER_SHELL=\"!bash !zsh fish\"",
		"TIMEZONE=\"UTC\"",
		"ENABLE_NTP=\"yes\"",
		"USE_REFLECTOR=\"yes\"",
		"MIRROR_REGIONS=\"Sweden\"",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("written file missing %q:\n%s", want, text)
		}
	}

	if _, err := executeCommand(t, "validate"); err != nil {
		t.Fatalf("wizard output does not validate: %v", err)
	}

	entries, err := journal().Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Op != history.OpWizard {
		t.Errorf("journal entries = %+v", entries)
	}
}

func TestWizardSeedsDefaultsFromExisting(t *testing.T) {
	path := setupEnv(t, sampleConfig)
	stubLsblk(t)

	var got tui.Answers
	stubWizard(t, func(devices []blockdev.Device, defaults tui.Answers) (*tui.Answers, error) {
		got = defaults
		return nil, nil
	})

	out, err := executeCommand(t, "wizard")
	if err != nil {
		t.Fatalf("wizard failed: %v", err)
	}
	if !strings.Contains(out, "cancelled") {
		t.Errorf("unexpected output: %q", out)
	}

	want := map[string]string{
		"Device":     "/dev/nvme0n1",
		"FileSystem": "ext4",
		"Scheme":     "single-root",
		"BootSize":   "512M",
		"RootSize":   "100%",
		"SwapSize":   "8G",
		"Bootloader": "systemd-boot",
		"Hostname":   "archbox",
		"UserName":   "drifter",
		"UserShell":  "zsh",
		"Timezone":   "Europe/Berlin",
	}
	v := reflect.ValueOf(got)
	for field, expect := range want {
		if s := v.FieldByName(field).String(); s != expect {
			t.Errorf("defaults.%s = %q, want %q", field, s, expect)
		}
	}
	if !reflect.DeepEqual(got.Kernels, []string{"linux"}) {
		t.Errorf("defaults.Kernels = %v", got.Kernels)
	}
	if !reflect.DeepEqual(got.MirrorRegions, []string{"Germany"}) {
		t.Errorf("defaults.MirrorRegions = %v", got.MirrorRegions)
	}
	if !got.EnableNTP {
		t.Error("ENABLE_NTP=yes should carry over")
	}
	if got.UseReflector {
		t.Error("USE_REFLECTOR=no should carry over")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleConfig {
		t.Error("cancelled wizard must not modify the file")
	}
}

func TestWizardPreservesUntouchedContent(t *testing.T) {
	path := setupEnv(t, sampleConfig)
	stubLsblk(t)

	stubWizard(t, func(devices []blockdev.Device, defaults tui.Answers) (*tui.Answers, error) {
		a := defaults
		a.Hostname = "relay"
		a.Kernels = []string{"linux-zen"}
		return &a, nil
	})

	if _, err := executeCommand(t, "wizard"); err != nil {
		t.Fatalf("wizard failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		"# Install target",
		"HOSTNAME=\"relay\"",
		"KERNELS=\"!linux !linux-lts linux-zen\"",
		"MIRROR_REGIONS=\"Germany !France\"",
		"LOCALE=(\"en_US.UTF-8 UTF-8\" \"de_DE.UTF-8 UTF-8\")",
		"EXTRA_PACKAGES=\"git vim\"",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("file missing %q:\n%s", want, text)
		}
	}
}

func TestWizardRunnerError(t *testing.T) {
	setupEnv(t, "")
	stubLsblk(t)

	stubWizard(t, func(devices []blockdev.Device, defaults tui.Answers) (*tui.Answers, error) {
		return nil, stderrors.New("no tty")
	})

	_, err := executeCommand(t, "wizard")
	if err == nil || !strings.Contains(err.Error(), "wizard failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyAnswers(t *testing.T) {
	t.Run("seeds catalog menus on a fresh document", func(t *testing.T) {
		setupEnv(t, "")
		doc := &conf.Document{}
		a := tui.DefaultAnswers()
		a.Device = "/dev/sda"
		a.FileSystem = "xfs"
		a.Hostname = "box"
		a.UserName = "arch"

		if err := applyAnswers(doc, &a); err != nil {
			t.Fatalf("applyAnswers: %v", err)
		}

		text := doc.String()
		if !strings.Contains(text, "FILE_SYSTEM_TYPE=\"!ext4 !btrfs xfs\"") {
			t.Errorf("catalog menu not seeded:\n%s", text)
		}
		if !strings.Contains(text, "DEVICE=\"/dev/sda\"") {
			t.Errorf("device not set:\n%s", text)
		}
	})

	t.Run("keeps document candidate order", func(t *testing.T) {
		setupEnv(t, "")
		doc, err := conf.Parse("FILE_SYSTEM_TYPE=\"!xfs !ext4 btrfs\"\n")
		if err != nil {
			t.Fatal(err)
		}
		a := tui.DefaultAnswers()
		a.Device = "/dev/sda"
		a.FileSystem = "ext4"
		a.Hostname = "box"
		a.UserName = "arch"

		if err := applyAnswers(doc, &a); err != nil {
			t.Fatalf("applyAnswers: %v", err)
		}
		if !strings.Contains(doc.String(), "FILE_SYSTEM_TYPE=\"!xfs ext4 !btrfs\"") {
			t.Errorf("document order lost:\n%s", doc.String())
		}
	})

	t.Run("appends picked values the document lacks", func(t *testing.T) {
		setupEnv(t, "")
		doc, err := conf.Parse("KERNELS=\"linux\"\n")
		if err != nil {
			t.Fatal(err)
		}
		a := tui.DefaultAnswers()
		a.Device = "/dev/sda"
		a.Hostname = "box"
		a.UserName = "arch"
		a.Kernels = []string{"linux", "linux-rt"}

		if err := applyAnswers(doc, &a); err != nil {
			t.Fatalf("applyAnswers: %v", err)
		}
		if !strings.Contains(doc.String(), "KERNELS=\"linux linux-rt\"") {
			t.Errorf("picked kernel not appended:\n%s", doc.String())
		}
	})
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Error("yesNo mapping wrong")
	}
}
