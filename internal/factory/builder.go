package factory

// Definition registers the fields of one data class in declaration order.
//
//	factory.Define(storage, "User").
//		Field("firstName", factory.Func(func(src *factory.Source, _ factory.Context) any { return src.FirstName() })).
//		Field("role", "user").
//		Field("fullName", fullName, "firstName", "lastName")
//
// A generator is a Generator, a func(*Source, Context) (any, error) or a
// func(*Source, Context) any. Any other value is stored as a static value;
// a function of another signature makes Generate fail with
// ErrInvalidGenerator.
type Definition struct {
	storage *Storage
	target  any
}

func Define(storage *Storage, target any) *Definition {
	if storage == nil {
		storage = DefaultStorage()
	}
	return &Definition{storage: storage, target: target}
}

func (d *Definition) Field(name string, generator any, dependsOn ...string) *Definition {
	d.storage.Register(d.target, name, generator, dependsOn...)
	return d
}

func (d *Definition) Target() any {
	return d.target
}
