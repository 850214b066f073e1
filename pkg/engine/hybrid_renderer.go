package engine

import (
	"errors"
	"fmt"
	"sync"
)

// HybridRenderer sends every frame to several renderers in order
type HybridRenderer struct {
	renderers []Renderer
	mutex     sync.Mutex
}

// NewHybridRenderer combines the given renderers; nil entries are skipped
func NewHybridRenderer(renderers ...Renderer) *HybridRenderer {
	hr := &HybridRenderer{}
	for _, r := range renderers {
		if r != nil {
			hr.renderers = append(hr.renderers, r)
		}
	}
	return hr
}

// Add appends a renderer
func (hr *HybridRenderer) Add(r Renderer) {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	hr.renderers = append(hr.renderers, r)
}

// Len returns the number of combined renderers
func (hr *HybridRenderer) Len() int {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	return len(hr.renderers)
}

// Name implements Renderer
func (hr *HybridRenderer) Name() string {
	return "hybrid"
}

// Render passes the frame to each renderer. A failing renderer does not stop
// the others; all failures are joined into the returned error.
func (hr *HybridRenderer) Render(scene *SceneData) error {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	var errs []error
	for _, r := range hr.renderers {
		if err := r.Render(scene); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Close closes all renderers
func (hr *HybridRenderer) Close() error {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	var errs []error
	for _, r := range hr.renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}
