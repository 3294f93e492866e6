package registry

import (
	"testing"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

func TestDefaultRegistryBuildsEveryGenerator(t *testing.T) {
	r := DefaultGeneratorRegistry()
	params := map[string]map[string]any{
		"const":         {"value": "x"},
		"uniform_int":   {"min": 1, "max": 10},
		"uniform_float": {"min": 0.5, "max": 1.5},
		"normal":        {"mean": 10, "std": 2},
		"choice":        {"values": []interface{}{"a", "b"}},
		"time_between":  {"start": "-7d", "end": "+1d"},
		"template":      {"format": "{{.a}}"},
	}
	src := factory.NewSource(1)
	for _, name := range r.List() {
		fn, err := r.Build(domain.GeneratorSpec{Type: name, Params: params[name]})
		if err != nil {
			t.Fatalf("build %s: %v", name, err)
		}
		if _, err := fn(src, factory.Context{"a": "b"}); err != nil {
			t.Fatalf("generate %s: %v", name, err)
		}
	}
}

func TestRegistryUnknownGenerator(t *testing.T) {
	r := NewGeneratorRegistry()
	if _, err := r.Get("nope"); err == nil {
		t.Fatal("expected missing generator error")
	}
	if _, err := r.Build(domain.GeneratorSpec{Type: "nope"}); err == nil {
		t.Fatal("expected build error for missing generator")
	}
}

func TestBuiltGeneratorsFollowRunSeed(t *testing.T) {
	r := DefaultGeneratorRegistry()
	fn, err := r.Build(domain.GeneratorSpec{Type: "faker_email"})
	if err != nil {
		t.Fatal(err)
	}
	generate := func() any {
		s := factory.NewStorage()
		factory.Define(s, "User").Field("email", fn)
		f, err := factory.New(s, factory.WithSeed(42)).CreateForClass("User")
		if err != nil {
			t.Fatal(err)
		}
		recs, err := f.Generate(1, nil)
		if err != nil {
			t.Fatal(err)
		}
		return recs[0]["email"]
	}
	if a, b := generate(), generate(); a != b {
		t.Fatalf("same seed gave %q and %q", a, b)
	}
}
