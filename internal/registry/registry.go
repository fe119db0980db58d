package registry

import (
	"fmt"

	"github.com/spachava753/compatmatrix/internal/component"
	"github.com/spachava753/compatmatrix/internal/environment"
	"github.com/spachava753/compatmatrix/internal/models"
)

// Registry is the immutable, ordered set of configured components.
type Registry struct {
	order []*component.Component
	byID  map[string]*component.Component
}

// New builds a registry from component configs, all rooted under cacheDir.
func New(cfgs []models.ComponentConfig, cacheDir string, ex environment.Executor, opts ...component.Option) (*Registry, error) {
	r := &Registry{byID: make(map[string]*component.Component, len(cfgs))}
	for i, cfg := range cfgs {
		c, err := component.New(cfg, cacheDir, ex, opts...)
		if err != nil {
			return nil, fmt.Errorf("component[%d]: %w", i, err)
		}
		if _, dup := r.byID[c.ID()]; dup {
			return nil, fmt.Errorf("component[%d]: duplicate id %q", i, c.ID())
		}
		r.byID[c.ID()] = c
		r.order = append(r.order, c)
	}
	return r, nil
}

// Get returns the component registered under id.
func (r *Registry) Get(id string) (*component.Component, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Components returns the components in configuration order.
func (r *Registry) Components() []*component.Component {
	out := make([]*component.Component, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.order)
}
