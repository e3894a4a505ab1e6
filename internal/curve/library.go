package curve

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Library holds every path built at start-up, keyed by name.
type Library struct {
	paths map[string]*Path
}

func NewLibrary() *Library {
	return &Library{paths: make(map[string]*Path)}
}

// Add registers (or replaces) a path under key.
func (l *Library) Add(key string, p *Path) {
	if p == nil {
		p = Empty()
	}
	l.paths[key] = p
}

// Lookup never returns a nil path: a missing key yields an empty path and
// an error wrapping ErrMissingPath.
func (l *Library) Lookup(key string) (*Path, error) {
	if l != nil {
		if p, ok := l.paths[key]; ok {
			return p, nil
		}
	}
	return Empty(), fmt.Errorf("%w: %q", ErrMissingPath, key)
}

// Keys returns the registered keys in sorted order.
func (l *Library) Keys() []string {
	keys := lo.Keys(l.paths)
	sort.Strings(keys)
	return keys
}
