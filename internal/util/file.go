package util

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceExtensions is the set of file extensions the CLI will sniff a
// source kind from when given a local path instead of a URI.
var SourceExtensions = map[string]bool{
	".gif":  true,
	".png":  true, // APNG shares the .png extension with still PNG
	".apng": true,
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".mov":  true,
	".webp": true,
}

// HasRecognizedExtension reports whether path ends in one of SourceExtensions.
func HasRecognizedExtension(path string) bool {
	return SourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// GetFilename returns the filename from a path.
func GetFilename(path string) string {
	return filepath.Base(path)
}

// GetFileStem returns the filename without extension.
func GetFileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResolveOutputPath determines the output path for a rendered video, given
// the source path (for the stem), an output directory, and the container
// extension ("mp4" or "webm").
func ResolveOutputPath(inputPath, outputDir, containerExt string) string {
	stem := GetFileStem(inputPath)
	return filepath.Join(outputDir, stem+"."+containerExt)
}
