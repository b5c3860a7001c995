package tree

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// WalkError reports a directory that could not be read
type WalkError struct {
	Path string
	Root bool // the root itself could not be read
	Err  error
}

func (e *WalkError) Error() string {
	if e.Root {
		return "reading root " + e.Path + ": " + e.Err.Error()
	}
	return "reading directory " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Walk lazily yields every non-directory path under root, in no particular order.
//
// A root that is a symlink is followed, and paths are still yielded under root.
// An unreadable subdirectory is yielded as a *WalkError and the walk goes on
// with its siblings. When the root cannot be read a *WalkError with Root set is
// yielded and the walk ends. Symlinks below the root are not followed into
// directories, and a symlink pointing at a directory is not yielded.
func Walk(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		walkRoot := root
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			walkRoot = resolved
		}

		_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			isRoot := path == walkRoot
			path = underRoot(root, walkRoot, path)

			if err != nil {
				if !yield(path, &WalkError{Path: path, Root: isRoot, Err: err}) || isRoot {
					return filepath.SkipAll
				}
				// WalkDir already skips the contents of a directory it failed to read
				return nil
			}

			if d.IsDir() {
				return nil
			}

			if d.Type()&fs.ModeSymlink != 0 {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					return nil
				}
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// underRoot maps a path below the resolved root back below root
func underRoot(root, walkRoot, path string) string {
	if walkRoot == root {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}
