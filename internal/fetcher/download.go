package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"wcp-fetch/internal/logger"
)

// download triggers the platform export for the application and waits for
// the ZIP to land in the configured download directory.
//
// The export arrives through the browser download machinery, so its exact
// filename is not knowable up front (the platform names it after the app's
// display name). Instead the newest ZIP already present is snapshotted as a
// baseline before the trigger, and the directory is polled until the newest
// ZIP differs from that baseline.
func (f *Fetcher) download(ctx context.Context, appID string) (string, error) {
	baseline, err := f.newestZip(f.cfg.DownloadDir)
	if err != nil {
		return "", err
	}
	logger.Debug("[DEBUG] Newest ZIP before download: %q\n", baseline)

	logger.Info("[INFO] Downloading source archive for app %s from %s\n", appID, f.cfg.APIBaseURL)
	if err := f.client.Download(ctx, appID); err != nil {
		return "", err
	}

	deadline := time.Now().Add(f.cfg.DownloadTimeout)
	for {
		newest, err := f.newestZip(f.cfg.DownloadDir)
		if err != nil {
			return "", err
		}
		if newest != "" && filepath.Base(newest) != filepath.Base(baseline) {
			logger.Info("[INFO] Download complete: %s\n", newest)
			return newest, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("download timed out after %s", f.cfg.DownloadTimeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.cfg.PollInterval):
		}
	}
}

// newestZip returns the path of the most recently modified *.zip file in
// dir, or "" when the directory holds none.
func (f *Fetcher) newestZip(dir string) (string, error) {
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read download directory %s: %w", dir, err)
	}

	var newest os.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		if newest == nil || entry.ModTime().After(newest.ModTime()) {
			newest = entry
		}
	}
	if newest == nil {
		return "", nil
	}
	return filepath.Join(dir, newest.Name()), nil
}
