package gitlib

import (
	"errors"
	"fmt"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrBareRepository is returned when a repository has no working tree.
var ErrBareRepository = errors.New("bare repository has no working tree")

// Repository wraps a libgit2 repository with a working tree.
type Repository struct {
	repo    *git2go.Repository
	workdir string
}

// OpenRepository opens the repository whose working tree is rooted at path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return wrap(repo)
}

// Discover opens the repository containing path, walking up parent
// directories like git itself does.
func Discover(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	gitDir, err := git2go.Discover(abs, false, nil)
	if err != nil {
		return nil, fmt.Errorf("discover repository from %s: %w", path, err)
	}

	return OpenRepository(gitDir)
}

func wrap(repo *git2go.Repository) (*Repository, error) {
	if repo.IsBare() {
		repo.Free()

		return nil, ErrBareRepository
	}

	workdir, err := filepath.Abs(repo.Workdir())
	if err != nil {
		repo.Free()

		return nil, fmt.Errorf("resolve working tree: %w", err)
	}

	return &Repository{repo: repo, workdir: workdir}, nil
}

// Workdir returns the absolute working tree root.
func (r *Repository) Workdir() string {
	return r.workdir
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the commit HEAD points to. An unborn HEAD yields the zero hash.
func (r *Repository) Head() (Hash, error) {
	unborn, err := r.repo.IsHeadUnborn()
	if err != nil {
		return Hash{}, fmt.Errorf("inspect HEAD: %w", err)
	}

	if unborn {
		return Hash{}, nil
	}

	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// TrackedFiles returns the absolute paths of every file in the index.
func (r *Repository) TrackedFiles() (map[string]bool, error) {
	index, err := r.repo.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	defer index.Free()

	count := index.EntryCount()
	tracked := make(map[string]bool, count)

	for i := range count {
		entry, entryErr := index.EntryByIndex(i)
		if entryErr != nil {
			return nil, fmt.Errorf("read index entry %d: %w", i, entryErr)
		}

		tracked[filepath.Join(r.workdir, filepath.FromSlash(entry.Path))] = true
	}

	return tracked, nil
}
