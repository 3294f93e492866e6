package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
	"github.com/mmrzaf/seeder/internal/generators"
)

type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]generators.Generator
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[string]generators.Generator),
	}
}

func (r *GeneratorRegistry) Register(name string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
}

func (r *GeneratorRegistry) Get(name string) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	return gen, nil
}

// Build resolves spec.Type and builds the field generator for spec.
func (r *GeneratorRegistry) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	gen, err := r.Get(spec.Type)
	if err != nil {
		return nil, err
	}
	fn, err := gen.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("generator %s: %w", spec.Type, err)
	}
	return fn, nil
}

func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register("const", &generators.ConstGenerator{})
	r.Register("uuid4", &generators.UUID4Generator{})
	r.Register("uniform_int", &generators.UniformIntGenerator{})
	r.Register("uniform_float", &generators.UniformFloatGenerator{})
	r.Register("normal", &generators.NormalGenerator{})
	r.Register("choice", &generators.ChoiceGenerator{})
	r.Register("bool", &generators.BoolGenerator{})
	r.Register("recent_time", &generators.RecentTimeGenerator{})
	r.Register("time_between", &generators.TimeBetweenGenerator{})
	r.Register("template", &generators.TemplateGenerator{})
	r.Register("faker_device_name", &generators.FakerDeviceNameGenerator{})
	for name, gen := range generators.FakerFuncs() {
		r.Register(name, gen)
	}
	return r
}
