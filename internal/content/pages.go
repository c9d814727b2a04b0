// Package content serves the static page documents (about, home) that sit
// beside the catalogs.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrPageUnavailable = errors.New("page content unavailable")
)

// Pages reads page documents from a directory on every request, so a
// broken or missing file is a recoverable state rather than a startup failure.
type Pages struct {
	dir   string
	names []string
}

// NewPages creates a page store for the given names
func NewPages(dir string, names ...string) *Pages {
	return &Pages{dir: dir, names: names}
}

// Names returns the known page names
func (p *Pages) Names() []string {
	return slices.Clone(p.names)
}

// Get loads a page document. Unknown names yield ErrPageNotFound; known
// names whose file is missing or unparseable yield ErrPageUnavailable.
func (p *Pages) Get(name string) (map[string]any, error) {
	if !slices.Contains(p.names, name) {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
	}

	var lastErr error
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		data, err := os.ReadFile(filepath.Join(p.dir, name+ext))
		if err != nil {
			lastErr = err
			continue
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrPageUnavailable, name, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrPageUnavailable, name, lastErr)
}
