// Package fetch downloads the raw text dump files from the upstream dump
// repository. One bounded GET per file, body written verbatim, no retries:
// a failed download aborts the update so stale and fresh inputs never mix.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// Files downloads each named file from baseURL into destDir. Transport
// errors, timeouts and non-2xx responses are fatal.
func Files(ctx context.Context, baseURL string, timeout time.Duration, destDir string, names []string) error {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	for _, name := range names {
		resp, err := client.R().
			SetContext(ctx).
			Get("/" + name)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", name, err)
		}
		if resp.IsError() {
			return fmt.Errorf("fetching %s: unexpected status %s", name, resp.Status())
		}

		path := filepath.Join(destDir, name)
		if err := os.WriteFile(path, resp.Body(), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
