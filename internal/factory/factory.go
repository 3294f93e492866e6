// Package factory generates synthetic records from per-class field declarations.
//
// A field is generated either from a static value, used verbatim, or from a
// Generator evaluated against the record being built. Fields may name other
// fields of the same class they depend on; those are resolved first.
package factory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrInvalidTarget    = errors.New("invalid factory target")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrCyclicDependency = errors.New("cyclic field dependency")
	ErrInvalidGenerator = errors.New("unsupported generator function")
)

// Context holds the values resolved so far for the record being generated.
type Context map[string]any

// String returns the value of key formatted with %v, or "" when key is unset.
func (c Context) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Record is one generated row.
type Record map[string]any

// Generator computes a field value from the random source and the fields
// already resolved for the current record.
type Generator interface {
	Generate(src *Source, ctx Context) (any, error)
}

type GeneratorFunc func(src *Source, ctx Context) (any, error)

func (f GeneratorFunc) Generate(src *Source, ctx Context) (any, error) {
	return f(src, ctx)
}

// Func adapts a generator that cannot fail.
func Func(fn func(src *Source, ctx Context) any) GeneratorFunc {
	return func(src *Source, ctx Context) (any, error) {
		return fn(src, ctx), nil
	}
}

// GeneratorError reports a failing field generator.
type GeneratorError struct {
	Field string
	Err   error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("field '%s': %v", e.Field, e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

type Option func(*DataFactory)

func WithSeed(seed int64) Option {
	return func(f *DataFactory) {
		f.source = NewSource(seed)
	}
}

func WithSource(src *Source) Option {
	return func(f *DataFactory) {
		if src != nil {
			f.source = src
		}
	}
}

// DataFactory builds Factory handles over a Storage.
type DataFactory struct {
	storage *Storage
	source  *Source
}

// New returns a DataFactory reading from storage, or from DefaultStorage when
// storage is nil.
func New(storage *Storage, options ...Option) *DataFactory {
	if storage == nil {
		storage = DefaultStorage()
	}
	f := &DataFactory{storage: storage}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.source == nil {
		f.source = NewSource(0)
	}
	return f
}

// CreateForClass snapshots the declarations currently registered for target.
// Declarations registered afterwards are not seen by the returned Factory.
func (d *DataFactory) CreateForClass(target any) (*Factory, error) {
	if !isValidTarget(target) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, target)
	}
	return newFactory(target, d.storage.Lookup(target), d.source), nil
}

// Factory generates records for one data class.
type Factory struct {
	target     any
	properties []PropertyMetadata
	index      map[string]*PropertyMetadata
	source     *Source
}

// newFactory collapses duplicate field names: the last declaration wins and
// the field takes the position of that declaration.
func newFactory(target any, declared []PropertyMetadata, src *Source) *Factory {
	last := make(map[string]int, len(declared))
	for i, p := range declared {
		last[p.Name] = i
	}
	props := make([]PropertyMetadata, 0, len(last))
	for i, p := range declared {
		if last[p.Name] == i {
			props = append(props, p)
		}
	}
	index := make(map[string]*PropertyMetadata, len(props))
	for i := range props {
		index[props[i].Name] = &props[i]
	}
	return &Factory{target: target, properties: props, index: index, source: src}
}

func (f *Factory) Target() any {
	return f.target
}

// Fields returns the declared field names in resolution order.
func (f *Factory) Fields() []string {
	names := make([]string, len(f.properties))
	for i, p := range f.properties {
		names[i] = p.Name
	}
	return names
}

// Generate produces count records. Values in overrides are copied into every
// record and are never regenerated.
func (f *Factory) Generate(count int, overrides map[string]any) ([]Record, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be >= 0, got %d", ErrInvalidArgument, count)
	}
	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		rec, err := f.generateOne(overrides)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (f *Factory) generateOne(overrides map[string]any) (Record, error) {
	ctx := make(Context, len(overrides)+len(f.properties))
	for k, v := range overrides {
		ctx[k] = v
	}
	r := &resolver{factory: f, ctx: ctx, active: make(map[string]bool)}
	for i := range f.properties {
		if err := r.resolve(&f.properties[i]); err != nil {
			return nil, err
		}
	}
	return Record(ctx), nil
}

type resolver struct {
	factory *Factory
	ctx     Context
	active  map[string]bool
	stack   []string
}

func (r *resolver) resolve(p *PropertyMetadata) error {
	if _, ok := r.ctx[p.Name]; ok {
		return nil
	}
	if r.active[p.Name] {
		return fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(append(r.cycleFrom(p.Name), p.Name), " -> "))
	}
	r.active[p.Name] = true
	r.stack = append(r.stack, p.Name)
	defer func() {
		delete(r.active, p.Name)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	for _, dep := range p.DependsOn {
		if _, ok := r.ctx[dep]; ok {
			continue
		}
		// unknown dependencies are left to the generator
		dp, ok := r.factory.index[dep]
		if !ok {
			continue
		}
		if err := r.resolve(dp); err != nil {
			return err
		}
	}

	v, err := evaluate(p.Generator, r.factory.source, r.ctx)
	if err != nil {
		return &GeneratorError{Field: p.Name, Err: err}
	}
	r.ctx[p.Name] = v
	return nil
}

func (r *resolver) cycleFrom(name string) []string {
	for i, n := range r.stack {
		if n == name {
			return append([]string(nil), r.stack[i:]...)
		}
	}
	return append([]string(nil), r.stack...)
}

func evaluate(generator any, src *Source, ctx Context) (any, error) {
	switch g := generator.(type) {
	case Generator:
		return g.Generate(src, ctx)
	case func(*Source, Context) (any, error):
		return g(src, ctx)
	case func(*Source, Context) any:
		return g(src, ctx), nil
	}
	// a function of any other shape is a mistake, not a static value
	if generator != nil && reflect.TypeOf(generator).Kind() == reflect.Func {
		return nil, fmt.Errorf("%w: %T", ErrInvalidGenerator, generator)
	}
	return generator, nil
}
