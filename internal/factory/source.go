package factory

import (
	"github.com/brianvoe/gofakeit/v6"
)

// Source is the random-data source handed to every generator. It exposes the
// full gofakeit API plus the underlying *rand.Rand as Rand.
type Source struct {
	*gofakeit.Faker
}

// NewSource returns a source seeded with seed. A zero seed draws a random one.
func NewSource(seed int64) *Source {
	return &Source{Faker: gofakeit.New(seed)}
}
