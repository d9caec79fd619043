// Package scanner walks a resource tree and derives a canonical entry for
// every regular file found under it.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/dfrecon/pkg/reconcile"
)

// MinDepth is the minimum number of path segments (tenant/type/file) a file
// needs below the root.
const MinDepth = 3

// DefaultIgnoreFile is the gitignore-syntax file read from the root.
const DefaultIgnoreFile = ".dfreconignore"

// Options tune a scan. The zero value scans every regular file.
type Options struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root.
	Exclude []string
	// IgnoreFile names a gitignore-syntax file relative to the root. It is
	// optional; a missing file is not an error.
	IgnoreFile string
	// RespectGitignore also applies .gitignore files found inside the tree.
	RespectGitignore bool
	// OnFile is called with the relative path of every file that becomes an
	// entry.
	OnFile func(rel string)
}

// Scan returns the set of entries for every regular file under root.
// Symbolic links and special files are skipped and never followed.
func Scan(root string, opts Options) (reconcile.Set, error) {
	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingRootError{Root: root, Err: err}
		}
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !st.IsDir() {
		return nil, &MissingRootError{Root: root, Reason: "not a directory"}
	}

	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	// A symlinked root is walked through its target.
	base, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	ign, err := newIgnorer(base, opts)
	if err != nil {
		return nil, err
	}

	entries := make(reconcile.Set)
	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == base {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesAny(opts.Exclude, rel) || ign.ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matchesAny(opts.Exclude, rel) || ign.ignored(rel, false) {
			return nil
		}

		e, err := EntryFor(rel)
		if err != nil {
			var shallow *ShallowPathError
			if errors.As(err, &shallow) {
				shallow.Root = root
			}
			return err
		}
		if opts.OnFile != nil {
			opts.OnFile(rel)
		}
		entries.Add(e)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", root, walkErr)
	}

	return entries, nil
}

// EntryFor derives the canonical entry of a slash-separated path relative
// to the root: type is the second-to-last segment, tenant the third-to-last.
func EntryFor(rel string) (reconcile.Entry, error) {
	segs := strings.Split(rel, "/")
	n := len(segs)
	if n < MinDepth {
		return reconcile.Entry{}, &ShallowPathError{Path: rel, Depth: n}
	}
	return reconcile.Entry{
		Name:   rel,
		Type:   segs[n-2],
		Tenant: segs[n-3],
	}, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
