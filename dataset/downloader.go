package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/giygas/medicines-search/logging"
)

var downloadClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// downloadFile fetches url into path. The body goes to a temporary file in the
// same directory first so a failed download never replaces a good file.
func downloadFile(ctx context.Context, path string, url string) error {
	cleanPath := filepath.Clean(path)
	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	response, err := downloadClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: unexpected status %d", url, response.StatusCode)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(cleanPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// No-op once the rename succeeded
		_ = os.Remove(tmpPath)
	}()

	written, err := io.Copy(tmpFile, response.Body)
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, cleanPath); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	logging.Debug("Dataset downloaded", "url", url, "path", cleanPath, "bytes", written)
	return nil
}
