// Package pipeline finds Java sources under a set of paths and migrates
// them in parallel with one recipe.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/gitlib"
)

// ErrInvalidPattern is returned for malformed include or exclude globs.
var ErrInvalidPattern = errors.New("invalid glob pattern")

const javaLanguage = "Java"

// Filter decides which discovered files are migrated. Globs use doublestar
// syntax and match the slash-separated path relative to the input root.
type Filter struct {
	Include []string
	Exclude []string
	// GitTracked keeps only files present in the enclosing repository's index.
	GitTracked bool
}

func (f Filter) validate() error {
	for _, pattern := range slices.Concat(f.Include, f.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	return nil
}

func (f Filter) matches(rel string) bool {
	for _, pattern := range f.Exclude {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}

	return false
}

// Discover returns the sorted, de-duplicated Java files under paths. A path
// naming a file is taken as is, subject to the same filters.
func Discover(paths []string, filter Filter) ([]string, error) {
	err := filter.validate()
	if err != nil {
		return nil, err
	}

	d := &discovery{filter: filter, seen: make(map[string]bool), tracked: make(map[string]map[string]bool)}

	for _, root := range paths {
		err = d.walk(root)
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)

	return d.files, nil
}

type discovery struct {
	filter Filter
	seen   map[string]bool
	// tracked caches index contents per repository working tree.
	tracked map[string]map[string]bool
	files   []string
}

func (d *discovery) walk(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return d.consider(root, filepath.ToSlash(filepath.Clean(root)))
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relative path of %s: %w", path, relErr)
		}

		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if rel != "." && (entry.Name() == ".git" || enry.IsVendor(rel+"/")) {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		return d.consider(path, rel)
	})
}

func (d *discovery) consider(path, rel string) error {
	if !isJava(path) || enry.IsVendor(rel) || !d.filter.matches(rel) {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	if d.seen[abs] {
		return nil
	}

	if d.filter.GitTracked {
		tracked, trackErr := d.isTracked(abs)
		if trackErr != nil {
			return trackErr
		}

		if !tracked {
			return nil
		}
	}

	d.seen[abs] = true
	d.files = append(d.files, path)

	return nil
}

func isJava(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".java") {
		return false
	}

	return enry.GetLanguage(filepath.Base(path), nil) == javaLanguage
}

func (d *discovery) isTracked(abs string) (bool, error) {
	for workdir, tracked := range d.tracked {
		if strings.HasPrefix(abs, workdir+string(filepath.Separator)) {
			return tracked[abs], nil
		}
	}

	repo, err := gitlib.Discover(filepath.Dir(abs))
	if err != nil {
		return false, fmt.Errorf("git-tracked filter: %w", err)
	}
	defer repo.Free()

	tracked, err := repo.TrackedFiles()
	if err != nil {
		return false, fmt.Errorf("git-tracked filter: %w", err)
	}

	d.tracked[repo.Workdir()] = tracked

	return tracked[abs], nil
}
