package generators

import (
	"fmt"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

// Generator turns a declarative GeneratorSpec into a field generator.
type Generator interface {
	Validate(spec domain.GeneratorSpec) error
	Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error)
}

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return 0.0
	}
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int64, float32, float64:
		return true
	}
	return false
}

func requireParams(spec domain.GeneratorSpec, names ...string) error {
	for _, name := range names {
		if spec.Params == nil {
			return fmt.Errorf("%s requires '%s' param", spec.Type, name)
		}
		if _, ok := spec.Params[name]; !ok {
			return fmt.Errorf("%s requires '%s' param", spec.Type, name)
		}
	}
	return nil
}

func stringParam(spec domain.GeneratorSpec, name string) (string, error) {
	raw, ok := spec.Params[name]
	if !ok {
		return "", fmt.Errorf("missing '%s' param", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("'%s' must be a string", name)
	}
	return s, nil
}
