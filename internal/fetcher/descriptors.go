package fetcher

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"wcp-fetch/internal/logger"
)

// renameDescriptors normalizes the application and site descriptor
// filenames inside the extracted tree. The export names them after the
// application's reference id; renaming them to fixed names lets checkouts
// of different applications produce comparable files under version control.
func (f *Fetcher) renameDescriptors(srcDir string) error {
	if err := f.renameDescriptor(srcDir, appDescriptorExt, appDescriptorName); err != nil {
		return err
	}
	return f.renameDescriptor(srcDir, siteDescriptorExt, siteDescriptorName)
}

// renameDescriptor finds the single file with the given extension and
// renames it to the stable name. Descriptors live under presentation/ in
// current exports; older exports kept them at the root of the tree, so that
// location is tried as a fallback.
func (f *Fetcher) renameDescriptor(srcDir, ext, stableName string) error {
	matches, err := afero.Glob(f.fs, filepath.Join(srcDir, presentationDirName, "*"+ext))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		matches, err = afero.Glob(f.fs, filepath.Join(srcDir, "*"+ext))
		if err != nil {
			return err
		}
	}

	if len(matches) == 0 {
		return fmt.Errorf("no %s descriptor found in %s", ext, srcDir)
	}
	if len(matches) > 1 {
		return fmt.Errorf("expected one %s descriptor in %s, found %d", ext, srcDir, len(matches))
	}

	src := matches[0]
	dest := filepath.Join(filepath.Dir(src), stableName)
	if src == dest {
		logger.Debug("[DEBUG] Descriptor %s already has its stable name\n", src)
		return nil
	}

	if exists, err := afero.Exists(f.fs, dest); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("file already exists: %s", dest)
	}
	if err := f.fs.Rename(src, dest); err != nil {
		return fmt.Errorf("failed to rename %s: %w", src, err)
	}
	logger.Info("[INFO] Renamed %s to %s\n", src, dest)
	return nil
}

// prettyPrintOrchestrations re-indents the orchestration JSON files under
// src/orchestration so the single-line export output diffs line by line.
// Files that do not parse as JSON are skipped with a warning; the export
// occasionally contains drafts that are not valid JSON yet.
func (f *Fetcher) prettyPrintOrchestrations(srcDir string) error {
	for _, pattern := range []string{"*.orchestration", "*.suborchestration"} {
		matches, err := afero.Glob(f.fs, filepath.Join(srcDir, orchestrationDirName, pattern))
		if err != nil {
			return err
		}
		for _, path := range matches {
			if err := f.prettyPrintFile(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// prettyPrintFile rewrites path with 2-space JSON indentation in place.
func (f *Fetcher) prettyPrintFile(path string) error {
	raw, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logger.Warn("[WARN] File %s is not valid JSON, skipping pretty-print: %v\n", path, err)
		return nil
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return err
	}

	if err := afero.WriteFile(f.fs, path, append(pretty, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	logger.Info("[INFO] Pretty-printed orchestration file: %s\n", path)
	return nil
}
