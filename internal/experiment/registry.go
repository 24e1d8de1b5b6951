package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/delab/internal/dynamo"
	"github.com/san-kum/delab/internal/integrators"
	"github.com/san-kum/delab/internal/physics"
)

var (
	ErrUnknownModel      = errors.New("experiment: unknown model")
	ErrUnknownIntegrator = errors.New("experiment: unknown integrator")
)

type Registry struct {
	models      map[string]func() dynamo.System
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() dynamo.System),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models["predprey"] = func() dynamo.System { return physics.NewPredPrey(1) }
	r.models["relaxation"] = func() dynamo.System { return physics.NewRelaxation(1, 0, 0) }

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

// GetModel builds the named system and applies params through
// dynamo.Configurable.
func (r *Registry) GetModel(name string, params map[string]float64) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	sys := fn()
	if len(params) == 0 {
		return sys, nil
	}

	cfg, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("model %s takes no parameters", name)
	}
	for _, k := range sortedKeys(params) {
		if err := cfg.SetParam(k, params[k]); err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
	}
	return sys, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
