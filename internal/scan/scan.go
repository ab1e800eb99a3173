// Package scan discovers Python source files under a root path and runs the
// extractor on each, collecting per-file records.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/docaudit/internal/extract"
	"github.com/phobologic/docaudit/internal/lang"
	"github.com/phobologic/docaudit/internal/logging"
	"github.com/phobologic/docaudit/internal/model"
)

// DefaultSkipDirs are directory names pruned before descent when the caller
// supplies no skip set of its own.
var DefaultSkipDirs = []string{
	"__pycache__",
	"node_modules",
	".git",
	".hg",
	".svn",
	"venv",
	".venv",
	"env",
	".env",
	"build",
	"dist",
	".tox",
	".mypy_cache",
	".ruff_cache",
	".pytest_cache",
	"egg-info",
}

// Options configures a scan.
type Options struct {
	// Recursive descends below the root directory; when false only the
	// root directory's immediate files are processed.
	Recursive bool

	// SkipDirs are directory names excluded before descending, so their
	// contents are never visited. Nil means DefaultSkipDirs.
	SkipDirs []string

	// ExcludeGlobs are doublestar patterns matched against the
	// root-relative path; matching files are skipped.
	ExcludeGlobs []string

	// UseGitignore additionally honors a .gitignore at the root.
	UseGitignore bool

	// Extract controls the extractor's subtree walks.
	Extract extract.Options

	// Progress, when set, is invoked after each file is extracted.
	Progress func(done, total int, path string)
}

// DefaultOptions returns a recursive scan with the default skip set.
func DefaultOptions() Options {
	return Options{Recursive: true, Extract: extract.DefaultOptions()}
}

// Scan produces one FileRecord per discovered source file. A single file
// root is included iff it carries the source extension. Errors inside an
// individual file's extraction never abort the walk: they are recorded in
// that file's ParsingErrors. Traversal order is not guaranteed beyond each
// file appearing exactly once.
func Scan(root string, opts Options) ([]model.FileRecord, error) {
	paths, err := discover(root, opts)
	if err != nil {
		return nil, err
	}

	records := make([]model.FileRecord, 0, len(paths))
	for i, path := range paths {
		rec := extract.ParseFileWithOptions(path, opts.Extract)
		if len(rec.ParsingErrors) > 0 {
			logging.L().Debugw("file failed to parse", "file", path, "error", rec.ParsingErrors[0])
		}
		records = append(records, rec)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths), path)
		}
	}
	return records, nil
}

// discover lists the source file paths a scan would visit.
func discover(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "root path")
	}

	if !info.IsDir() {
		if filepath.Ext(root) == lang.SourceExtension {
			return []string{root}, nil
		}
		return []string{}, nil
	}

	skip := make(map[string]struct{})
	skipDirs := opts.SkipDirs
	if skipDirs == nil {
		skipDirs = DefaultSkipDirs
	}
	for _, d := range skipDirs {
		skip[d] = struct{}{}
	}

	var gi *ignore.GitIgnore
	if opts.UseGitignore {
		gi = loadGitignore(root)
	}

	paths := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skipped := skip[d.Name()]; skipped {
				return filepath.SkipDir
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(d.Name()) != lang.SourceExtension {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		for _, pattern := range opts.ExcludeGlobs {
			if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
				return nil
			}
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking root")
	}
	return paths, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// Relative returns path relative to root when possible, for display.
func Relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
