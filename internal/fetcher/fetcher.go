package fetcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"wcp-fetch/internal/config"
	"wcp-fetch/internal/logger"
	"wcp-fetch/internal/wcpcli"
)

// Directory and descriptor naming conventions of a platform source export.
const (
	srcDirName     = "src"
	archiveDirName = "archive"

	presentationDirName  = "presentation"
	orchestrationDirName = "orchestration"

	appDescriptorExt  = ".amd"
	siteDescriptorExt = ".smd"

	// Stable names the descriptors are renamed to after extraction, so
	// checkouts of different applications diff cleanly.
	appDescriptorName  = "application_metadata" + appDescriptorExt
	siteDescriptorName = "site_metadata" + siteDescriptorExt

	// Timestamp embedded in archived ZIP filenames. Second granularity is
	// fine enough that two runs cannot collide.
	archiveTimeFormat = "2006-01-02_15-04-05"
)

// Result reports what a completed sync produced.
type Result struct {
	AppID       string // Numeric application id resolved from the reference id
	ArchivePath string // Final location of the archived ZIP
}

// Fetcher runs the fetch-and-sync sequence for one application.
// Every filesystem touch goes through the afero.Fs so the whole pipeline is
// testable against an in-memory filesystem.
type Fetcher struct {
	fs     afero.Fs
	client *wcpcli.Client
	cfg    config.Config
	now    func() time.Time
}

// New returns a Fetcher using the given filesystem, wcpcli client and config.
func New(fs afero.Fs, client *wcpcli.Client, cfg config.Config) *Fetcher {
	return &Fetcher{fs: fs, client: client, cfg: cfg, now: time.Now}
}

// Sync runs the full sequence: authenticate, resolve the application id,
// download the source export, archive it under a timestamped name, empty
// the src directory, extract the archive into it, and normalize the
// descriptor filenames. Each step depends on the previous one succeeding;
// the first failure aborts the run with the step named in the error. No
// rollback is attempted.
func (f *Fetcher) Sync(ctx context.Context, referenceID, appDir string) (*Result, error) {
	if err := f.validateDir(appDir); err != nil {
		return nil, fmt.Errorf("app directory: %w", err)
	}
	if err := f.validateDir(f.cfg.DownloadDir); err != nil {
		return nil, fmt.Errorf("download directory: %w", err)
	}

	srcDir := filepath.Join(appDir, srcDirName)
	archiveDir := filepath.Join(appDir, archiveDirName)

	// src and archive are created on first use.
	for _, dir := range []string{srcDir, archiveDir} {
		if err := f.fs.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := f.client.Login(ctx); err != nil {
		return nil, fmt.Errorf("authentication step: %w", err)
	}

	appID, err := f.client.ResolveAppID(ctx, referenceID)
	if err != nil {
		return nil, fmt.Errorf("id resolution step: %w", err)
	}

	downloaded, err := f.download(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("download step: %w", err)
	}

	logger.Info("[INFO] Moving the downloaded file to the archive.\n")
	archivePath, err := f.archive(downloaded, archiveDir)
	if err != nil {
		return nil, fmt.Errorf("archive step: %w", err)
	}

	logger.Info("[INFO] Deleting old files.\n")
	if err := f.clean(srcDir); err != nil {
		return nil, fmt.Errorf("cleanup step: %w", err)
	}

	logger.Info("[INFO] Unzipping the source file.\n")
	if err := f.extract(archivePath, srcDir); err != nil {
		return nil, fmt.Errorf("extraction step: %w", err)
	}

	logger.Info("[INFO] Renaming amd and smd files.\n")
	if err := f.renameDescriptors(srcDir); err != nil {
		return nil, fmt.Errorf("descriptor rename step: %w", err)
	}

	logger.Info("[INFO] Pretty printing orchestration files.\n")
	if err := f.prettyPrintOrchestrations(srcDir); err != nil {
		return nil, fmt.Errorf("orchestration pretty-print step: %w", err)
	}

	return &Result{AppID: appID, ArchivePath: archivePath}, nil
}

// validateDir checks that path exists and is a directory.
func (f *Fetcher) validateDir(path string) error {
	info, err := f.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%s not found", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// clean removes every entry (files and subdirectories) in dir, leaving the
// directory itself in place, so stale files from a previous version do not
// linger into the extraction.
func (f *Fetcher) clean(dir string) error {
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := f.fs.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}
	logger.Debug("[DEBUG] Removed %d entries from %s\n", len(entries), dir)
	return nil
}
