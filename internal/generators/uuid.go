package generators

import (
	"github.com/google/uuid"
	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

type UUID4Generator struct{}

func (g *UUID4Generator) Validate(spec domain.GeneratorSpec) error {
	return nil
}

// Build draws the uuid bytes from the source so seeded runs repeat.
func (g *UUID4Generator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	return func(src *factory.Source, _ factory.Context) (any, error) {
		uuidBytes := make([]byte, 16)
		src.Rand.Read(uuidBytes)
		uuidBytes[6] = (uuidBytes[6] & 0x0f) | 0x40
		uuidBytes[8] = (uuidBytes[8] & 0x3f) | 0x80
		u, err := uuid.FromBytes(uuidBytes)
		if err != nil {
			return nil, err
		}
		return u.String(), nil
	}, nil
}
