package ticker

import (
	"fmt"
	"sync"
)

// Instances tracks live widgets by ID.
type Instances struct {
	registry   *Registry
	runner     CycleRunner
	dispatcher Dispatcher

	mu      sync.RWMutex
	widgets map[string]*Widget
}

func NewInstances(registry *Registry, runner CycleRunner, dispatcher Dispatcher) *Instances {
	return &Instances{
		registry:   registry,
		runner:     runner,
		dispatcher: dispatcher,
		widgets:    make(map[string]*Widget),
	}
}

// Create builds an unattached widget for a registered element.
func (in *Instances) Create(element string) (*Widget, error) {
	kind, ok := in.registry.Lookup(element)
	if !ok {
		return nil, fmt.Errorf("element %q is not defined", element)
	}

	w := NewWidget(element, kind, in.runner, in.dispatcher)

	in.mu.Lock()
	in.widgets[w.ID] = w
	in.mu.Unlock()

	return w, nil
}

func (in *Instances) Get(id string) (*Widget, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	w, ok := in.widgets[id]
	return w, ok
}

// Remove detaches and forgets the widget.
func (in *Instances) Remove(id string) bool {
	in.mu.Lock()
	w, ok := in.widgets[id]
	delete(in.widgets, id)
	in.mu.Unlock()

	if ok {
		w.Detach()
	}
	return ok
}

func (in *Instances) Count() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.widgets)
}
