// Package fetch downloads the installer file set from a remote base URL.
//
// The manifest is fixed: the config file plus the three install-phase
// scripts. Existing files are overwritten, scripts are made executable,
// and the first failure aborts the run. Checksum and signature
// verification are out of scope.
package fetch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/isoforge/archconf/internal/system"
)

// Manifest is the fixed set of files an install host needs, in fetch order.
var Manifest = []string{
	"archconf.conf",
	"preinstall.sh",
	"install.sh",
	"postinstall.sh",
}

// Fetcher downloads the manifest from a base URL into a directory.
type Fetcher struct {
	BaseURL string
	Dir     string

	// Client defaults to NewHTTPClient when nil.
	Client *http.Client

	// FS defaults to the real filesystem when nil.
	FS system.FileSystem

	// Progress, when set, is called after each file lands.
	Progress func(name string)
}

// New returns a Fetcher with the default HTTP client and filesystem.
func New(baseURL, dir string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		Dir:     dir,
		Client:  NewHTTPClient(),
		FS:      system.DefaultFS(),
	}
}

// NewHTTPClient returns an http.Client with bounded retries and backoff.
// Shared by fetch and the doctor's mirror probe.
func NewHTTPClient() *http.Client {
	rc := retryablehttp.Client{
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
		RetryMax:     3,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return rc.StandardClient()
}

// Run downloads every manifest file, stopping at the first failure.
// Files that already exist in the target directory are overwritten.
func (f *Fetcher) Run(ctx context.Context) error {
	if err := f.fs().MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", f.Dir, err)
	}

	for _, name := range Manifest {
		if err := f.fetchOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fetcher) fetchOne(ctx context.Context, name string) error {
	url := f.fileURL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", name, err)
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", name, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	// SecureJoin keeps the destination inside the target directory even
	// if a manifest name ever carries path separators.
	dest, err := securejoin.SecureJoin(f.Dir, name)
	if err != nil {
		return fmt.Errorf("resolving destination for %s: %w", name, err)
	}

	if err := f.fs().WriteFileAtomic(dest, data, fileMode(name)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if f.Progress != nil {
		f.Progress(name)
	}
	return nil
}

// fileMode returns 0755 for scripts so they are directly executable.
func fileMode(name string) fs.FileMode {
	if strings.HasSuffix(name, ".sh") {
		return 0755
	}
	return 0644
}

func (f *Fetcher) fileURL(name string) string {
	return strings.TrimRight(f.BaseURL, "/") + "/" + name
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return NewHTTPClient()
}

func (f *Fetcher) fs() system.FileSystem {
	if f.FS != nil {
		return f.FS
	}
	return system.DefaultFS()
}
