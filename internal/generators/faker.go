package generators

import (
	"fmt"
	"sort"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

// FakerGenerator produces fake text from the run's seeded Source, so a fixed
// seed reproduces the same values. Defaults lists the integer params the
// generator accepts and their values when a field leaves them out.
type FakerGenerator struct {
	Defaults map[string]int
	Fn       func(src *factory.Source, params map[string]int) string
}

func (g *FakerGenerator) Validate(spec domain.GeneratorSpec) error {
	if g.Fn == nil {
		return fmt.Errorf("%s has no value function", spec.Type)
	}
	_, err := g.params(spec)
	return err
}

func (g *FakerGenerator) params(spec domain.GeneratorSpec) (map[string]int, error) {
	out := make(map[string]int, len(g.Defaults))
	for k, v := range g.Defaults {
		out[k] = v
	}
	keys := make([]string, 0, len(spec.Params))
	for k := range spec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := g.Defaults[k]; !ok {
			return nil, fmt.Errorf("%s does not accept '%s' param", spec.Type, k)
		}
		raw := spec.Params[k]
		if !isNumber(raw) || toInt64(raw) <= 0 {
			return nil, fmt.Errorf("'%s' must be a positive number", k)
		}
		out[k] = int(toInt64(raw))
	}
	return out, nil
}

func (g *FakerGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if g.Fn == nil {
		return nil, fmt.Errorf("%s has no value function", spec.Type)
	}
	params, err := g.params(spec)
	if err != nil {
		return nil, err
	}
	fn := g.Fn
	return func(src *factory.Source, _ factory.Context) (any, error) {
		return fn(src, params), nil
	}, nil
}

func fakerText(fn func(src *factory.Source) string) *FakerGenerator {
	return &FakerGenerator{Fn: func(src *factory.Source, _ map[string]int) string { return fn(src) }}
}

// FakerFuncs lists the faker_* generators by name.
func FakerFuncs() map[string]*FakerGenerator {
	return map[string]*FakerGenerator{
		"faker_name":       fakerText(func(src *factory.Source) string { return src.Name() }),
		"faker_first_name": fakerText(func(src *factory.Source) string { return src.FirstName() }),
		"faker_last_name":  fakerText(func(src *factory.Source) string { return src.LastName() }),
		"faker_email":      fakerText(func(src *factory.Source) string { return src.Email() }),
		"faker_username":   fakerText(func(src *factory.Source) string { return src.Username() }),
		"faker_word":       fakerText(func(src *factory.Source) string { return src.Word() }),
		"faker_url":        fakerText(func(src *factory.Source) string { return src.URL() }),
		"faker_city":       fakerText(func(src *factory.Source) string { return src.City() }),
		"faker_country":    fakerText(func(src *factory.Source) string { return src.Country() }),
		"faker_street":     fakerText(func(src *factory.Source) string { return src.Street() }),
		"faker_phone":      fakerText(func(src *factory.Source) string { return src.Phone() }),
		"faker_company":    fakerText(func(src *factory.Source) string { return src.Company() }),
		"faker_password": {
			Defaults: map[string]int{"length": 12},
			Fn: func(src *factory.Source, p map[string]int) string {
				return src.Password(true, true, true, false, false, p["length"])
			},
		},
		"faker_sentence": {
			Defaults: map[string]int{"words": 8},
			Fn: func(src *factory.Source, p map[string]int) string {
				return src.Sentence(p["words"])
			},
		},
		"faker_paragraph": {
			Defaults: map[string]int{"sentences": 4, "words": 10},
			Fn: func(src *factory.Source, p map[string]int) string {
				return src.Paragraph(1, p["sentences"], p["words"], " ")
			},
		},
	}
}

type FakerDeviceNameGenerator struct{}

func (g *FakerDeviceNameGenerator) Validate(spec domain.GeneratorSpec) error {
	return nil
}

func (g *FakerDeviceNameGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	prefixes := []string{"Sensor", "Device", "Meter", "Gauge", "Monitor", "Detector", "Reader", "Tracker"}
	suffixes := []string{"Alpha", "Beta", "Gamma", "Delta", "Prime", "Pro", "Max", "Plus"}
	return func(src *factory.Source, _ factory.Context) (any, error) {
		prefix := prefixes[src.Rand.Intn(len(prefixes))]
		suffix := suffixes[src.Rand.Intn(len(suffixes))]
		return fmt.Sprintf("%s-%s-%04d", prefix, suffix, src.Rand.Intn(10000)), nil
	}, nil
}
