package generators

import (
	"errors"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

type UniformFloatGenerator struct{}

func (g *UniformFloatGenerator) Validate(spec domain.GeneratorSpec) error {
	if err := requireParams(spec, "min", "max"); err != nil {
		return err
	}
	if !isNumber(spec.Params["min"]) || !isNumber(spec.Params["max"]) {
		return errors.New("uniform_float 'min' and 'max' must be numbers")
	}
	if toFloat64(spec.Params["max"]) < toFloat64(spec.Params["min"]) {
		return errors.New("uniform_float 'max' must not be less than 'min'")
	}
	return nil
}

func (g *UniformFloatGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	min := toFloat64(spec.Params["min"])
	max := toFloat64(spec.Params["max"])
	return func(src *factory.Source, _ factory.Context) (any, error) {
		return min + src.Rand.Float64()*(max-min), nil
	}, nil
}
