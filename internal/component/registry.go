// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components it serves and calls Mount, which runs the optional Init hook
// and then lets every component attach its routes to the shared router.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Initializer is optional.  If a Component implements it, Mount calls
// Init(deps) once before Routes.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Routes attaches API endpoints to r, e.g:
//
//	r.Route("/api/things", func(api chi.Router) { ... })
type Component interface {
	Name() string
	Routes(r chi.Router, d Deps)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initializes every registered component and attaches its routes.
func Mount(r chi.Router, d Deps) error {
	for _, c := range All() {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(d); err != nil {
				return fmt.Errorf("component %s: init: %w", c.Name(), err)
			}
		}
		c.Routes(r, d)
		d.Logger().Debug("component mounted", zap.String("component", c.Name()))
	}
	return nil
}
