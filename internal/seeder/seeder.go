// Package seeder runs an ordered list of seeders against a data store.
package seeder

import (
	"context"
	"reflect"

	"github.com/mmrzaf/seeder/internal/domain"
)

// Seeder populates and clears one slice of data. Implementations decide their
// own idempotence policy, e.g. skipping Seed when rows exist and
// opts.Refresh is false.
type Seeder interface {
	Seed(ctx context.Context, opts domain.RunOptions) error
	Drop(ctx context.Context, opts domain.RunOptions) error
}

// Named lets a seeder choose the name it is selected and logged by.
type Named interface {
	Name() string
}

// NameOf returns s.Name() for Named seeders and the concrete type name otherwise.
func NameOf(s Seeder) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
