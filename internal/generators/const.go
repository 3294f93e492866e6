package generators

import (
	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

type ConstGenerator struct{}

func (g *ConstGenerator) Validate(spec domain.GeneratorSpec) error {
	return requireParams(spec, "value")
}

func (g *ConstGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	value := spec.Params["value"]
	return func(*factory.Source, factory.Context) (any, error) {
		return value, nil
	}, nil
}
