package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/dfrecon/pkg/safeio"
	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignorer layers gitignore-style patterns over a scan:
// 1. .gitignore files inside the tree (only with RespectGitignore)
// 2. the root-level ignore file (Options.IgnoreFile)
type ignorer struct {
	matcher gitignore.Matcher
	// control files that never become entries
	ignoreFile    string
	skipGitignore bool
}

func newIgnorer(base string, opts Options) (*ignorer, error) {
	ig := &ignorer{}
	var patterns []gitignore.Pattern

	if opts.RespectGitignore {
		ps, err := gitignore.ReadPatterns(osfs.New(base), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read .gitignore files under %s: %w", base, err)
		}
		patterns = append(patterns, ps...)
		ig.skipGitignore = true
	}

	if opts.IgnoreFile != "" {
		name, err := safeio.CleanUserPath(opts.IgnoreFile)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore file %q: %w", opts.IgnoreFile, err)
		}
		ig.ignoreFile = name

		lines, err := readIgnoreFile(base, name)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}

	if len(patterns) > 0 {
		ig.matcher = gitignore.NewMatcher(patterns)
	}
	return ig, nil
}

// readIgnoreFile returns the non-empty, non-comment lines of the ignore
// file, or nothing when the file does not exist.
func readIgnoreFile(base, name string) ([]string, error) {
	content, err := safeio.ReadFileContained(base, filepath.Join(base, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ignore file %s: %w", name, err)
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ignored reports whether the slash-separated relative path is filtered out.
func (ig *ignorer) ignored(rel string, isDir bool) bool {
	if !isDir {
		if rel == ig.ignoreFile || ig.skipGitignore && path.Base(rel) == ".gitignore" {
			return true
		}
	}
	if ig.matcher == nil {
		return false
	}
	return ig.matcher.Match(strings.Split(rel, "/"), isDir)
}
