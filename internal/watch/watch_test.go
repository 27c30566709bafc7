package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// startWatch runs Watch in a goroutine and returns its done channel.
func startWatch(t *testing.T, ctx context.Context, path string, onChange func(string) error) chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, onChange)
	}()
	// Give the watcher time to install before the test writes.
	time.Sleep(100 * time.Millisecond)
	return done
}

func TestWatch_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archconf.conf")
	if err := os.WriteFile(path, []byte("HOSTNAME=\"a\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan string, 4)
	done := startWatch(t, ctx, path, func(p string) error {
		fired <- p
		return nil
	})

	if err := os.WriteFile(path, []byte("HOSTNAME=\"b\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-fired:
		if p != path {
			t.Errorf("callback path = %q, want %q", p, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("callback never fired")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v on cancel, want nil", err)
	}
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archconf.conf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count atomic.Int32
	startWatch(t, ctx, path, func(string) error {
		count.Add(1)
		return nil
	})

	// Back-to-back writes inside the debounce window.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("HOSTNAME=\"x\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(Debounce + time.Second)
	if got := count.Load(); got != 1 {
		t.Errorf("callback fired %d times for one burst, want 1", got)
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archconf.conf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count atomic.Int32
	startWatch(t, ctx, path, func(string) error {
		count.Add(1)
		return nil
	})

	if err := os.WriteFile(filepath.Join(dir, "other.conf"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(Debounce + time.Second)
	if got := count.Load(); got != 0 {
		t.Errorf("callback fired %d times for an unrelated file, want 0", got)
	}
}

func TestWatch_CallbackErrorNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archconf.conf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count atomic.Int32
	done := startWatch(t, ctx, path, func(string) error {
		count.Add(1)
		return errors.New("validation failed")
	})

	if err := os.WriteFile(path, []byte("bad\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(Debounce + time.Second)

	if err := os.WriteFile(path, []byte("worse\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(Debounce + time.Second)

	if got := count.Load(); got != 2 {
		t.Errorf("callback fired %d times, want 2 (errors must not stop the watch)", got)
	}

	select {
	case err := <-done:
		t.Fatalf("Watch exited early: %v", err)
	default:
	}
}

func TestWatch_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "archconf.conf")
	err := Watch(context.Background(), path, func(string) error { return nil })
	if err == nil {
		t.Error("Watch should fail when the directory does not exist")
	}
}

func TestWatch_CancelStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archconf.conf")

	ctx, cancel := context.WithCancel(context.Background())
	done := startWatch(t, ctx, path, func(string) error { return nil })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v on cancel, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}
