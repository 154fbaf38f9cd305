package fetcher

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"wcp-fetch/internal/logger"
)

// archive moves the downloaded ZIP into the archive directory under a name
// embedding the current date and time, e.g. "Foo App_2024-01-15_13-45-02.zip",
// and returns the final path. An existing file at the destination is an
// error; archived snapshots are never overwritten.
func (f *Fetcher) archive(downloaded, archiveDir string) (string, error) {
	base := filepath.Base(downloaded)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dest := filepath.Join(archiveDir, fmt.Sprintf("%s_%s%s", stem, f.now().Format(archiveTimeFormat), ext))

	if exists, err := afero.Exists(f.fs, dest); err != nil {
		return "", err
	} else if exists {
		return "", fmt.Errorf("archive file already exists: %s", dest)
	}

	if err := f.move(downloaded, dest); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", downloaded, dest, err)
	}
	logger.Info("[INFO] Moved %s to %s\n", downloaded, dest)
	return dest, nil
}

// move renames src to dest, falling back to copy-and-delete when the rename
// fails (the download directory may live on a different filesystem than the
// app directory).
func (f *Fetcher) move(src, dest string) error {
	if err := f.fs.Rename(src, dest); err == nil {
		return nil
	}

	in, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := f.fs.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return f.fs.Remove(src)
}
