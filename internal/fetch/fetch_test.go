package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/isoforge/archconf/internal/system"
)

// newFileServer serves the manifest files with recognizable bodies.
func newFileServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		for _, m := range Manifest {
			if name == m {
				w.Write([]byte("contents of " + name + "\n"))
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	srv := newFileServer(t)
	dir := t.TempDir()

	var got []string
	f := New(srv.URL, dir)
	f.Progress = func(name string) { got = append(got, name) }

	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, name := range Manifest {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		want := "contents of " + name + "\n"
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}

	if len(got) != len(Manifest) {
		t.Errorf("progress called %d times, want %d", len(got), len(Manifest))
	}
	for i, name := range Manifest {
		if got[i] != name {
			t.Errorf("progress[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestRun_ScriptsExecutable(t *testing.T) {
	srv := newFileServer(t)
	dir := t.TempDir()

	if err := New(srv.URL, dir).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	tests := []struct {
		name string
		want os.FileMode
	}{
		{"archconf.conf", 0644},
		{"preinstall.sh", 0755},
		{"install.sh", 0755},
		{"postinstall.sh", 0755},
	}
	for _, tt := range tests {
		info, err := os.Stat(filepath.Join(dir, tt.name))
		if err != nil {
			t.Fatalf("stat %s: %v", tt.name, err)
		}
		if info.Mode().Perm() != tt.want {
			t.Errorf("%s mode = %o, want %o", tt.name, info.Mode().Perm(), tt.want)
		}
	}
}

func TestRun_OverwritesExisting(t *testing.T) {
	srv := newFileServer(t)
	dir := t.TempDir()

	stale := filepath.Join(dir, "archconf.conf")
	if err := os.WriteFile(stale, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New(srv.URL, dir).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(stale)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "contents of archconf.conf\n" {
		t.Errorf("stale file not overwritten: %q", data)
	}
}

func TestRun_FailFast(t *testing.T) {
	// install.sh 404s; the files after it must not be written.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/install.sh" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	err := New(srv.URL, dir).Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail when a file is missing")
	}
	if !strings.Contains(err.Error(), "install.sh") {
		t.Errorf("error should name the failing file: %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "postinstall.sh")); !os.IsNotExist(statErr) {
		t.Error("postinstall.sh written despite earlier failure")
	}
}

func TestRun_TrailingSlashBase(t *testing.T) {
	srv := newFileServer(t)
	dir := t.TempDir()

	if err := New(srv.URL+"/", dir).Run(context.Background()); err != nil {
		t.Fatalf("Run failed with trailing slash base: %v", err)
	}
}

func TestRun_CreatesTargetDir(t *testing.T) {
	srv := newFileServer(t)
	dir := filepath.Join(t.TempDir(), "nested", "target")

	if err := New(srv.URL, dir).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "archconf.conf")); err != nil {
		t.Errorf("config not written into created dir: %v", err)
	}
}

func TestRun_WriteErrorThroughMockFS(t *testing.T) {
	srv := newFileServer(t)

	fs := system.NewMockFS()
	fs.WriteFileErr = os.ErrPermission

	f := New(srv.URL, "/etc/archconf")
	f.FS = fs

	if err := f.Run(context.Background()); err == nil {
		t.Error("Run should surface filesystem write errors")
	}
}

func TestFileMode(t *testing.T) {
	if m := fileMode("install.sh"); m != 0755 {
		t.Errorf("install.sh mode = %o, want 0755", m)
	}
	if m := fileMode("archconf.conf"); m != 0644 {
		t.Errorf("archconf.conf mode = %o, want 0644", m)
	}
}

func TestFileURL(t *testing.T) {
	f := &Fetcher{BaseURL: "https://example.com/profiles/"}
	if got := f.fileURL("install.sh"); got != "https://example.com/profiles/install.sh" {
		t.Errorf("fileURL = %q", got)
	}
	f.BaseURL = "https://example.com/profiles"
	if got := f.fileURL("install.sh"); got != "https://example.com/profiles/install.sh" {
		t.Errorf("fileURL = %q", got)
	}
}
