package generators

import (
	"errors"
	"fmt"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

type ChoiceGenerator struct{}

func (g *ChoiceGenerator) Validate(spec domain.GeneratorSpec) error {
	if spec.Params == nil {
		return errors.New("choice requires 'values' param")
	}
	valuesRaw, ok := spec.Params["values"]
	if !ok {
		return errors.New("choice requires 'values' param")
	}

	values, ok := valuesRaw.([]interface{})
	if !ok {
		return errors.New("'values' must be a list")
	}

	if len(values) == 0 {
		return errors.New("'values' cannot be empty")
	}

	if weightsRaw, hasWeights := spec.Params["weights"]; hasWeights {
		weights, ok := weightsRaw.([]interface{})
		if !ok {
			return errors.New("'weights' must be a list")
		}
		if len(weights) != len(values) {
			return errors.New("'weights' and 'values' must have the same length")
		}
		total := 0.0
		for _, w := range weights {
			weight := toFloat64(w)
			if weight < 0 {
				return fmt.Errorf("negative weight: %v", w)
			}
			total += weight
		}
		if total == 0 {
			return errors.New("total weight is zero")
		}
	}

	return nil
}

func (g *ChoiceGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	values := spec.Params["values"].([]interface{})

	weightsRaw, hasWeights := spec.Params["weights"]
	if !hasWeights {
		return func(src *factory.Source, _ factory.Context) (any, error) {
			return values[src.Rand.Intn(len(values))], nil
		}, nil
	}

	weights := make([]float64, len(values))
	totalWeight := 0.0
	for i, w := range weightsRaw.([]interface{}) {
		weights[i] = toFloat64(w)
		totalWeight += weights[i]
	}

	return func(src *factory.Source, _ factory.Context) (any, error) {
		r := src.Rand.Float64() * totalWeight
		cumWeight := 0.0
		for i, w := range weights {
			cumWeight += w
			if r < cumWeight {
				return values[i], nil
			}
		}
		return values[len(values)-1], nil
	}, nil
}

type BoolGenerator struct{}

func (g *BoolGenerator) Validate(spec domain.GeneratorSpec) error {
	if p, ok := spec.Params["probability"]; ok {
		if f := toFloat64(p); f < 0 || f > 1 {
			return fmt.Errorf("bool 'probability' must be within [0, 1], got %v", p)
		}
	}
	return nil
}

func (g *BoolGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	p := 0.5
	if raw, ok := spec.Params["probability"]; ok {
		p = toFloat64(raw)
	}
	return func(src *factory.Source, _ factory.Context) (any, error) {
		return src.Rand.Float64() < p, nil
	}, nil
}
