package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isoforge/archconf/internal/system"
)

const configPath = "/etc/archconf.conf"

// healthyChecker returns a Checker whose dependencies all pass.
func healthyChecker(t *testing.T) *Checker {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	fs := system.NewMockFS()
	fs.AddDir("/sys/firmware/efi")
	fs.AddFile(configPath, []byte("HOSTNAME=\"archbox\"\nBOOTLOADER=\"systemd-boot !grub\"\n"), 0644)

	exec := system.NewMockExecutor()
	exec.AddResponse("timedatectl show", []byte("yes\n"), nil)
	exec.AddResponse("lsblk", []byte(`{"blockdevices": []}`), nil)

	return &Checker{
		FS:         fs,
		Exec:       exec,
		Client:     &http.Client{},
		ConfigFile: configPath,
		MirrorURL:  srv.URL,
		Geteuid:    func() int { return 0 },
	}
}

func checkNamed(t *testing.T, r *Report, name string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %q check in report", name)
	return Check{}
}

func TestRun_AllHealthy(t *testing.T) {
	c := healthyChecker(t)
	r := c.Run(context.Background())

	if len(r.Checks) != 6 {
		t.Fatalf("got %d checks, want 6", len(r.Checks))
	}
	if r.HasFailures() {
		t.Errorf("unexpected failures: %+v", r.Checks)
	}
	if r.HasWarnings() {
		t.Errorf("unexpected warnings: %+v", r.Checks)
	}

	for _, name := range []string{"root", "uefi", "tools", "mirror", "ntp", "config"} {
		if got := checkNamed(t, r, name).Status; got != StatusOK {
			t.Errorf("%s status = %q, want ok", name, got)
		}
	}
}

func TestCheckRoot_NonRoot(t *testing.T) {
	c := healthyChecker(t)
	c.Geteuid = func() int { return 1000 }

	r := c.Run(context.Background())
	if got := checkNamed(t, r, "root").Status; got != StatusWarn {
		t.Errorf("root status = %q, want warn", got)
	}
	if r.HasFailures() {
		t.Error("non-root is a warning, not a failure")
	}
}

func TestCheckUEFI_LegacyBIOS(t *testing.T) {
	c := healthyChecker(t)
	c.FS = func() system.FileSystem {
		fs := system.NewMockFS()
		fs.AddFile(configPath, []byte("HOSTNAME=\"archbox\"\n"), 0644)
		return fs
	}()

	r := c.Run(context.Background())
	check := checkNamed(t, r, "uefi")
	if check.Status != StatusWarn {
		t.Errorf("uefi status = %q, want warn", check.Status)
	}
	if !strings.Contains(check.Detail, "grub") {
		t.Errorf("detail should point at grub: %q", check.Detail)
	}
}

func TestCheckTools_Missing(t *testing.T) {
	c := healthyChecker(t)
	exec := system.NewMockExecutor()
	exec.AddResponse("timedatectl show", []byte("yes\n"), nil)
	exec.MissingBinaries["pacstrap"] = true
	exec.MissingBinaries["arch-chroot"] = true
	c.Exec = exec

	r := c.Run(context.Background())
	check := checkNamed(t, r, "tools")
	if check.Status != StatusFail {
		t.Errorf("tools status = %q, want fail", check.Status)
	}
	if !strings.Contains(check.Detail, "pacstrap") || !strings.Contains(check.Detail, "arch-chroot") {
		t.Errorf("detail should list missing tools: %q", check.Detail)
	}
	if !r.HasFailures() {
		t.Error("missing tools should fail the report")
	}
}

func TestCheckMirror_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := healthyChecker(t)
	c.MirrorURL = srv.URL

	r := c.Run(context.Background())
	if got := checkNamed(t, r, "mirror").Status; got != StatusWarn {
		t.Errorf("mirror status = %q, want warn", got)
	}
	if r.HasFailures() {
		t.Error("unreachable mirror is a warning, not a failure")
	}
}

func TestCheckMirror_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := healthyChecker(t)
	c.MirrorURL = srv.URL

	r := c.Run(context.Background())
	if got := checkNamed(t, r, "mirror").Status; got != StatusWarn {
		t.Errorf("mirror status = %q, want warn", got)
	}
}

func TestCheckNTP_NotSynchronized(t *testing.T) {
	c := healthyChecker(t)
	exec := system.NewMockExecutor()
	exec.AddResponse("timedatectl show", []byte("no\n"), nil)
	c.Exec = exec

	r := c.Run(context.Background())
	check := checkNamed(t, r, "ntp")
	if check.Status != StatusWarn {
		t.Errorf("ntp status = %q, want warn", check.Status)
	}
	if !strings.Contains(check.Detail, "set-ntp") {
		t.Errorf("detail should suggest the fix: %q", check.Detail)
	}
}

func TestCheckNTP_TimedatectlMissing(t *testing.T) {
	c := healthyChecker(t)
	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{Err: context.DeadlineExceeded}
	c.Exec = exec

	r := c.Run(context.Background())
	if got := checkNamed(t, r, "ntp").Status; got != StatusWarn {
		t.Errorf("ntp status = %q, want warn", got)
	}
}

func TestCheckConfig_Missing(t *testing.T) {
	c := healthyChecker(t)
	fs := system.NewMockFS()
	fs.AddDir("/sys/firmware/efi")
	c.FS = fs

	r := c.Run(context.Background())
	check := checkNamed(t, r, "config")
	if check.Status != StatusWarn {
		t.Errorf("config status = %q, want warn", check.Status)
	}
	if !strings.Contains(check.Detail, "wizard") {
		t.Errorf("detail should point at the wizard: %q", check.Detail)
	}
}

func TestCheckConfig_ParseError(t *testing.T) {
	c := healthyChecker(t)
	fs := system.NewMockFS()
	fs.AddDir("/sys/firmware/efi")
	fs.AddFile(configPath, []byte("HOSTNAME=\"unterminated\n"), 0644)
	c.FS = fs

	r := c.Run(context.Background())
	if got := checkNamed(t, r, "config").Status; got != StatusFail {
		t.Errorf("config status = %q, want fail", got)
	}
	if !r.HasFailures() {
		t.Error("broken config should fail the report")
	}
}

func TestCheckConfig_CardinalityConflict(t *testing.T) {
	c := healthyChecker(t)
	fs := system.NewMockFS()
	fs.AddDir("/sys/firmware/efi")
	fs.AddFile(configPath, []byte("BOOTLOADER=\"grub systemd-boot\"\n"), 0644)
	c.FS = fs

	r := c.Run(context.Background())
	if got := checkNamed(t, r, "config").Status; got != StatusFail {
		t.Errorf("config status = %q, want fail", got)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("archconf.conf")
	if c.MirrorURL != DefaultMirrorURL {
		t.Errorf("MirrorURL = %q, want %q", c.MirrorURL, DefaultMirrorURL)
	}
	if c.Client == nil || c.FS == nil || c.Exec == nil || c.Geteuid == nil {
		t.Error("New should wire every dependency")
	}
	if c.ConfigFile != "archconf.conf" {
		t.Errorf("ConfigFile = %q", c.ConfigFile)
	}
}
