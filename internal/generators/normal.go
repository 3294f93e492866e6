package generators

import (
	"errors"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

type NormalGenerator struct{}

func (g *NormalGenerator) Validate(spec domain.GeneratorSpec) error {
	if err := requireParams(spec, "mean", "std"); err != nil {
		return err
	}
	if toFloat64(spec.Params["std"]) < 0 {
		return errors.New("normal 'std' must be >= 0")
	}
	return nil
}

func (g *NormalGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	mean := toFloat64(spec.Params["mean"])
	std := toFloat64(spec.Params["std"])
	return func(src *factory.Source, _ factory.Context) (any, error) {
		return src.Rand.NormFloat64()*std + mean, nil
	}, nil
}
