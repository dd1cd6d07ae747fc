package ticker

import (
	"fmt"
	"regexp"
	"slices"
	"sync"

	"github.com/samber/lo"
)

const (
	ElementTicker     = "rss-ticker"
	ElementWidget     = "rss-widget"
	ElementWidgetItem = "rss-widget-item"
	ElementTest       = "test-widget"
)

var elementNamePattern = regexp.MustCompile(`^[a-z][a-z0-9._]*-[a-z0-9._-]*$`)

// Registry maps element names to renderer kinds.
type Registry struct {
	mu       sync.RWMutex
	elements map[string]Kind
}

func NewRegistry() *Registry {
	return &Registry{elements: make(map[string]Kind)}
}

// Define registers name. Defining the same name with the same kind again is a no-op.
func (r *Registry) Define(name string, kind Kind) error {
	if !elementNamePattern.MatchString(name) {
		return fmt.Errorf("invalid element name %q: must be lowercase and contain a hyphen", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.elements[name]; ok {
		if existing == kind {
			return nil
		}
		return fmt.Errorf("element %q already defined as %s", name, existing)
	}
	r.elements[name] = kind
	return nil
}

func (r *Registry) Lookup(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.elements[name]
	return kind, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.elements)
	slices.Sort(names)
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry with the built-in elements.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

func RegisterBuiltins(r *Registry) {
	builtins := []struct {
		name string
		kind Kind
	}{
		{ElementTicker, KindTicker},
		{ElementWidget, KindCard},
		{ElementWidgetItem, KindCard},
		{ElementTest, KindStatic},
	}
	for _, b := range builtins {
		if err := r.Define(b.name, b.kind); err != nil {
			panic(err)
		}
	}
}
