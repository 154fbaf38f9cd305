package fetcher

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data

	"wcp-fetch/internal/logger"
)

// extract unpacks the archive at src into dest, preserving the internal
// directory structure. The platform exports ZIPs, which is the normal case;
// the other formats are routed by extension for exports that arrive
// re-compressed.
func (f *Fetcher) extract(src, dest string) error {
	switch {
	case strings.HasSuffix(src, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		return f.extractZip(src, dest)
	case strings.HasSuffix(src, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		return f.extract7z(src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		return f.extractTar(src, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", src)
	}
}

// extractZip extracts a .zip archive.
func (f *Fetcher) extractZip(src, dest string) error {
	file, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	r, err := zip.NewReader(file, info.Size())
	if err != nil {
		return fmt.Errorf("%s is not a valid zip file: %w", src, err)
	}

	for _, entry := range r.File {
		path := filepath.Join(dest, entry.Name)
		if entry.FileInfo().IsDir() {
			if err := f.fs.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		if err := f.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		rc, err := entry.Open()
		if err != nil {
			return err
		}
		if err := f.writeFile(path, rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}
	logger.Info("[INFO] Successfully extracted %s to %s\n", src, dest)
	return nil
}

// extractTar handles tar and compressed tar variants.
func (f *Fetcher) extractTar(src, dest string) error {
	file, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	var reader io.Reader = file
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(file)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(file)
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(file, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return err
		}

		target := filepath.Join(dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := f.fs.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := f.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := f.writeFile(target, tr); err != nil {
				return err
			}
		}
	}
	logger.Info("[INFO] Successfully extracted %s to %s\n", src, dest)
	return nil
}

// extract7z handles .7z extraction using the sevenzip library.
func (f *Fetcher) extract7z(src, dest string) error {
	file, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	r, err := sevenzip.NewReader(file, info.Size())
	if err != nil {
		return fmt.Errorf("failed to open 7z archive %s: %w", src, err)
	}

	for _, entry := range r.File {
		path := filepath.Join(dest, entry.Name)
		if entry.FileInfo().IsDir() {
			if err := f.fs.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		if err := f.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		rc, err := entry.Open()
		if err != nil {
			return err
		}
		if err := f.writeFile(path, rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}
	logger.Info("[INFO] Successfully extracted %s to %s\n", src, dest)
	return nil
}

// writeFile creates path and copies r into it.
func (f *Fetcher) writeFile(path string, r io.Reader) error {
	out, err := f.fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
