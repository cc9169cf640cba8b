package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver discovers source units by walking the project's roots.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveSources returns every file under the project's roots whose name matches an include
// glob and that is not excluded. Missing roots are skipped.
func (r *Resolver) ResolveSources(project *domain.Project) ([]domain.Unit, error) {
	found := make(domain.UnitSet)

	for _, root := range project.Roots {
		dir := filepath.Join(project.Root, root)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		for path, err := range r.walker.WalkFiles(dir, project.Exclude) {
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceDiscoveryFailed.Error()), "root", dir)
			}
			if !Matches(project.Include, filepath.Base(path)) {
				continue
			}

			rel, err := filepath.Rel(project.Root, path)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceDiscoveryFailed.Error()), "path", path)
			}
			found.Add(domain.NewUnit(filepath.ToSlash(rel)))
		}
	}

	return found.Sorted(), nil
}

// Matches reports whether name matches any of the globs.
func Matches(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}
