package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mahirjain10/pixelmancer/internal/types"
)

// SkipDir can be returned by a DirFunc to leave a directory unvisited.
var SkipDir = errors.New("skip this directory")

type (
	FileFunc func(entry types.FileEntry) error
	DirFunc  func(dir string, relPath string) error
)

type frame struct {
	dir     string
	rel     string
	entries []os.DirEntry
	next    int
}

// IsPNG matches file names ending in .png regardless of case.
func IsPNG(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".png")
}

// Walk calls fn for every regular .png file below root, depth-first in
// directory listing order. The first error aborts the walk.
func Walk(ctx context.Context, root string, fn FileFunc) error {
	return walk(ctx, root, "", nil, fn)
}

// WalkRel is Walk for a subdirectory of the input root. relPath is the
// directory's path relative to that root and prefixes every RelPath.
func WalkRel(ctx context.Context, dir string, relPath string, fn FileFunc) error {
	return walk(ctx, dir, relPath, nil, fn)
}

// Dirs calls fn for root and every directory below it.
func Dirs(ctx context.Context, root string, fn DirFunc) error {
	return walk(ctx, root, "", fn, nil)
}

func walk(ctx context.Context, root string, rootRel string, onDir DirFunc, onFile FileFunc) error {
	if onDir != nil {
		if err := onDir(root, rootRel); err != nil {
			if errors.Is(err, SkipDir) {
				return nil
			}
			return err
		}
	}

	first, err := readFrame(root, rootRel)
	if err != nil {
		return err
	}
	stack := []*frame{first}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		fullPath := filepath.Join(top.dir, entry.Name())
		relPath := filepath.Join(top.rel, entry.Name())

		switch {
		case entry.IsDir():
			if onDir != nil {
				if err := onDir(fullPath, relPath); err != nil {
					if errors.Is(err, SkipDir) {
						continue
					}
					return err
				}
			}
			child, err := readFrame(fullPath, relPath)
			if err != nil {
				return err
			}
			stack = append(stack, child)
		case entry.Type().IsRegular() && IsPNG(entry.Name()):
			if onFile == nil {
				continue
			}
			if err := onFile(types.FileEntry{Path: fullPath, RelPath: relPath}); err != nil {
				return err
			}
		}
	}
	return nil
}

func readFrame(dir string, rel string) (*frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	return &frame{dir: dir, rel: rel, entries: entries}, nil
}
