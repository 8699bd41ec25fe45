package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// TempDir is a scoped temporary directory that can be torn down in one call.
// The codec driver uses one of these as its virtual filesystem, shared by
// all render jobs, which keep apart by putting the job id in file names.
type TempDir struct {
	path string
}

// Path returns the directory's filesystem path.
func (d *TempDir) Path() string {
	return d.path
}

// Cleanup removes the directory and everything under it.
func (d *TempDir) Cleanup() error {
	return os.RemoveAll(d.path)
}

// CreateTempDir creates a new uniquely-named directory under baseDir, named
// "<prefix>_<random>".
func CreateTempDir(baseDir, prefix string) (*TempDir, error) {
	suffix, err := generateRandomString(8)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(baseDir, fmt.Sprintf("%s_%s", prefix, suffix))
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", path, err)
	}
	return &TempDir{path: path}, nil
}

// TempFile is a single scoped temporary file.
type TempFile struct {
	path string
}

// Path returns the file's filesystem path.
func (f *TempFile) Path() string {
	return f.path
}

// Cleanup removes the file.
func (f *TempFile) Cleanup() error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CreateTempFile creates (and opens/closes) a new empty file under baseDir,
// named "<prefix>_<random>.<ext>".
func CreateTempFile(baseDir, prefix, ext string) (*TempFile, error) {
	path, err := CreateTempFilePath(baseDir, prefix, ext)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file %s: %w", path, err)
	}
	_ = f.Close()
	return &TempFile{path: path}, nil
}

// CreateTempFilePath generates a "<prefix>_<random>.<ext>" path under baseDir
// without creating the file.
func CreateTempFilePath(baseDir, prefix, ext string) (string, error) {
	suffix, err := generateRandomString(8)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.%s", prefix, suffix, ext)
	return filepath.Join(baseDir, name), nil
}

// EnsureDirectoryWritable checks that path exists, is a directory, and
// accepts a test file write.
func EnsureDirectoryWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory %s is not accessible: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	probe, err := CreateTempFile(path, ".write_probe", "tmp")
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", path, err)
	}
	return probe.Cleanup()
}

// CleanupStaleTempFiles removes files in dir whose name starts with prefix
// and whose modification time is older than maxAge. maxAge of 0 removes
// every matching file regardless of age. Returns the number removed.
func CleanupStaleTempFiles(dir, prefix string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if maxAge > 0 && info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// GetAvailableSpace returns the free space in bytes for the filesystem
// containing path, or 0 if it cannot be determined.
func GetAvailableSpace(path string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}

// lowDiskSpaceThreshold is the free-space floor below which CheckDiskSpace warns.
const lowDiskSpaceThreshold = 1 * GiB

// CheckDiskSpace logs (via the supplied logger, if non-nil) a warning when
// the filesystem containing path has less than lowDiskSpaceThreshold free.
func CheckDiskSpace(path string, logger func(format string, args ...any)) uint64 {
	available := GetAvailableSpace(path)
	if available > 0 && available < lowDiskSpaceThreshold && logger != nil {
		logger("low disk space at %s: %s available", path, FormatBytes(available))
	}
	return available
}

// generateRandomString returns a random hex string of length n.
func generateRandomString(n int) (string, error) {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:n], nil
}
