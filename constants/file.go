package constants

import "strings"

const (
	// DefaultExtension is the recognized text extension for eligible files.
	DefaultExtension = ".txt"

	// DefaultMaxFileSize caps how large a file the analyzer will scan (100 MiB).
	DefaultMaxFileSize int64 = 100 * 1024 * 1024

	// MaxLineBytes bounds a single line during scanning.
	MaxLineBytes = 1024 * 1024

	// QuarantineDirName is the subdirectory of the input dir that rejected
	// files are moved into.
	QuarantineDirName = "invalid"
)

// NormalizeExt lowercases an extension and guarantees a leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
