package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/system"
)

// Env is a self-contained environment for CLI-level tests: a temp
// directory holding the configuration file and the change journal,
// with the default app pointed at it. Everything is restored on
// cleanup.
type Env struct {
	Dir         string
	ConfigFile  string
	HistoryFile string
}

type settings struct {
	config  string
	noWrite bool
}

// Option customizes NewEnv.
type Option func(*settings)

// WithConfig writes content as the environment's configuration file
// instead of the valid fixture.
func WithConfig(content string) Option {
	return func(s *settings) { s.config = content }
}

// WithoutConfig leaves the configuration file absent.
func WithoutConfig() Option {
	return func(s *settings) { s.noWrite = true }
}

// NewEnv builds the environment. The configuration defaults to the
// valid fixture.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	s := settings{config: Fixture(t, "valid.conf")}
	for _, opt := range opts {
		opt(&s)
	}

	dir := t.TempDir()
	env := &Env{
		Dir:         dir,
		ConfigFile:  filepath.Join(dir, "archconf.conf"),
		HistoryFile: filepath.Join(dir, "history.jsonl"),
	}

	if !s.noWrite {
		if err := os.WriteFile(env.ConfigFile, []byte(s.config), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	app.SetDefault(app.New(app.WithPaths(&app.Paths{
		ConfigFile:  env.ConfigFile,
		StateDir:    dir,
		HistoryFile: env.HistoryFile,
	})))
	t.Cleanup(app.ResetDefault)

	return env
}

// ReadConfig returns the current contents of the configuration file.
func (e *Env) ReadConfig(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.ConfigFile)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	return string(data)
}

// InstallMockFS swaps the default filesystem for a mock and restores
// the previous one on cleanup.
func InstallMockFS(t *testing.T) *system.MockFS {
	t.Helper()
	fs := system.NewMockFS()
	saved := system.DefaultFS()
	system.SetDefaultFS(fs)
	t.Cleanup(func() { system.SetDefaultFS(saved) })
	return fs
}

// InstallMockExecutor swaps the default command executor for a mock
// and restores the previous one on cleanup.
func InstallMockExecutor(t *testing.T) *system.MockExecutor {
	t.Helper()
	exec := system.NewMockExecutor()
	saved := system.DefaultExecutor()
	system.SetDefaultExecutor(exec)
	t.Cleanup(func() { system.SetDefaultExecutor(saved) })
	return exec
}
