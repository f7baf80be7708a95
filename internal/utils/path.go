package utils

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/mahirjain10/pixelmancer/internal/types"
)

// SizeDir is the per-size directory name, e.g. "64x64".
func SizeDir(size int) string {
	return fmt.Sprintf("%dx%d", size, size)
}

// NewOutputTarget maps a source path relative to the input root to
// outputRoot/SxS/<relative dir>/<basename>.
func NewOutputTarget(outputRoot string, size int, relPath string) types.OutputTarget {
	dir := filepath.Join(outputRoot, SizeDir(size), filepath.Dir(relPath))
	return types.OutputTarget{
		Size: size,
		Dir:  dir,
		Path: filepath.Join(dir, filepath.Base(relPath)),
	}
}

// S3Key is the object key for one output. It always uses forward slashes.
func S3Key(prefix string, size int, relPath string) string {
	return path.Join(prefix, SizeDir(size), filepath.ToSlash(relPath))
}
