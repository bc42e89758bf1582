package clipboardwatcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// copyFiles copies each existing clipboard file into destDir, skipping
// paths that match any exclude glob. Missing files are noted and skipped;
// a copy failure never fails the capture. Returned paths are relative to
// baseDir.
func copyFiles(files []string, destDir string, excludes []string, baseDir string, logger *slog.Logger) []string {
	var copied []string
	for _, src := range files {
		if matchesAny(src, excludes) {
			logger.Debug("Skipping excluded file", "path", src)
			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			logger.Warn("Clipboard file not found", "path", src)
			continue
		}
		if info.IsDir() {
			logger.Debug("Skipping directory", "path", src)
			continue
		}

		dest := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			logger.Warn("Failed to copy clipboard file", "path", src, "error", err)
			continue
		}
		copied = append(copied, relPath(baseDir, dest))
	}
	return copied
}

// matchesAny reports whether path matches any doublestar pattern. Patterns
// are tried against both the full path and the base name so "*.tmp" works
// without a directory prefix.
func matchesAny(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
