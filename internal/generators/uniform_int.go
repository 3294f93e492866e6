package generators

import (
	"errors"
	"fmt"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

type UniformIntGenerator struct{}

func (g *UniformIntGenerator) Validate(spec domain.GeneratorSpec) error {
	if err := requireParams(spec, "min", "max"); err != nil {
		return err
	}
	if !isNumber(spec.Params["min"]) || !isNumber(spec.Params["max"]) {
		return errors.New("uniform_int 'min' and 'max' must be numbers")
	}
	min := toInt64(spec.Params["min"])
	max := toInt64(spec.Params["max"])
	if max <= min {
		return fmt.Errorf("max (%d) must be greater than min (%d)", max, min)
	}
	return nil
}

// Build returns values in [min, max).
func (g *UniformIntGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	min := toInt64(spec.Params["min"])
	max := toInt64(spec.Params["max"])
	return func(src *factory.Source, _ factory.Context) (any, error) {
		return min + src.Rand.Int63n(max-min), nil
	}, nil
}
