package app

import (
	"fmt"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
	"github.com/mmrzaf/seeder/internal/registry"
)

// RegisterDefinitions compiles every definition into storage, keyed by the
// definition name. Fields with a GeneratorSpec get the built generator; the
// rest get their static value.
func RegisterDefinitions(storage *factory.Storage, reg *registry.GeneratorRegistry, defs []*domain.FactoryDefinition) error {
	for _, def := range defs {
		d := factory.Define(storage, def.Name)
		for _, f := range def.Fields {
			if f.Generator == nil {
				d.Field(f.Name, f.Value, f.DependsOn...)
				continue
			}
			fn, err := reg.Build(*f.Generator)
			if err != nil {
				return fmt.Errorf("factory '%s', field '%s': %w", def.Name, f.Name, err)
			}
			d.Field(f.Name, fn, f.DependsOn...)
		}
	}
	return nil
}

// tableColumns derives the CREATE TABLE columns of a factory. Fields without a
// generator or value are nullable.
func tableColumns(def *domain.FactoryDefinition) []domain.Column {
	cols := make([]domain.Column, len(def.Fields))
	for i, f := range def.Fields {
		cols[i] = domain.Column{
			Name:     f.Name,
			Type:     f.Type,
			Nullable: f.Generator == nil && f.Value == nil,
		}
	}
	return cols
}
