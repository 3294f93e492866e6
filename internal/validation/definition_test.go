package validation

import (
	"strings"
	"testing"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/registry"
)

func userDefinition() *domain.FactoryDefinition {
	return &domain.FactoryDefinition{
		Name: "User",
		Fields: []domain.FieldDefinition{
			{Name: "first_name", Type: domain.ColumnTypeString, Generator: &domain.GeneratorSpec{Type: "faker_first_name"}},
			{Name: "last_name", Type: domain.ColumnTypeString, Generator: &domain.GeneratorSpec{Type: "faker_last_name"}},
			{
				Name:      "full_name",
				Type:      domain.ColumnTypeString,
				Generator: &domain.GeneratorSpec{Type: "template", Params: map[string]any{"format": "{{.first_name}} {{.last_name}}"}},
				DependsOn: []string{"first_name", "last_name"},
			},
			{Name: "role", Type: domain.ColumnTypeString, Value: "member"},
		},
	}
}

func TestValidateDefinition(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	if err := v.ValidateDefinition(userDefinition()); err != nil {
		t.Fatalf("expected valid definition, got %v", err)
	}

	cases := map[string]func(d *domain.FactoryDefinition){
		"factory name is required":  func(d *domain.FactoryDefinition) { d.Name = "" },
		"duplicate field name":      func(d *domain.FactoryDefinition) { d.Fields[1].Name = "first_name" },
		"invalid field identifier":  func(d *domain.FactoryDefinition) { d.Fields[0].Name = "first-name" },
		"generator not found":       func(d *domain.FactoryDefinition) { d.Fields[0].Generator.Type = "nope" },
		"undeclared field":          func(d *domain.FactoryDefinition) { d.Fields[2].DependsOn = []string{"middle_name"} },
		"generator validation":      func(d *domain.FactoryDefinition) { d.Fields[2].Generator.Params = nil },
		"invalid column type":       func(d *domain.FactoryDefinition) { d.Fields[3].Type = "money" },
		"only one of value":         func(d *domain.FactoryDefinition) { d.Fields[0].Value = "x" },
		"cyclic field dependencies": func(d *domain.FactoryDefinition) { d.Fields[0].DependsOn = []string{"full_name"} },
	}
	for want, mutate := range cases {
		def := userDefinition()
		mutate(def)
		err := v.ValidateDefinition(def)
		if err == nil {
			t.Fatalf("%s: expected error", want)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error containing %q, got %v", want, err)
		}
	}
}

func testProject() *domain.Project {
	return &domain.Project{
		Name:   "demo",
		Target: domain.TargetConfig{Name: "local", Kind: domain.TargetKindSQLite, DSN: "file:demo.db"},
		Seeders: []domain.SeederSpec{
			{Name: "UserSeeder", Factory: "User", Table: "users", Count: 10, DummyCount: 50},
			{Name: "PostSeeder", Factory: "User", Table: "posts", Count: 3, Per: &domain.ParentRef{Table: "users", Column: "id", Field: "author_id"}},
		},
	}
}

func TestValidateProject(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	known := map[string]*domain.FactoryDefinition{"User": userDefinition()}
	if err := v.ValidateProject(testProject(), known); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}

	cases := map[string]func(p *domain.Project){
		"unsupported target kind":   func(p *domain.Project) { p.Target.Kind = "mysql" },
		"target dsn is required":    func(p *domain.Project) { p.Target.DSN = "" },
		"must not set schema":       func(p *domain.Project) { p.Target.Schema = "public" },
		"duplicate seeder name":     func(p *domain.Project) { p.Seeders[1].Name = "UserSeeder" },
		"invalid table identifier":  func(p *domain.Project) { p.Seeders[0].Table = "users;drop" },
		"factory not found":         func(p *domain.Project) { p.Seeders[0].Factory = "Ghost" },
		"count must be >= 0":        func(p *domain.Project) { p.Seeders[0].Count = -1 },
		"per must include":          func(p *domain.Project) { p.Seeders[1].Per.Field = "" },
		"invalid column identifier": func(p *domain.Project) { p.Seeders[0].Values = map[string]any{"bad name": 1} },
	}
	for want, mutate := range cases {
		p := testProject()
		mutate(p)
		err := v.ValidateProject(p, known)
		if err == nil {
			t.Fatalf("%s: expected error", want)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error containing %q, got %v", want, err)
		}
	}
}

func TestValidateProjectCreateTableNeedsTypes(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	def := userDefinition()
	def.Fields[3].Type = ""
	p := testProject()
	p.Seeders[0].CreateTable = true

	err := v.ValidateProject(p, map[string]*domain.FactoryDefinition{"User": def})
	if err == nil || !strings.Contains(err.Error(), "create_table requires a type") {
		t.Fatalf("expected create_table type error, got %v", err)
	}
}

func TestValidateProjectCreateTableNeedsDeclaredOverrides(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	known := map[string]*domain.FactoryDefinition{"User": userDefinition()}

	p := testProject()
	p.Seeders[1].CreateTable = true
	err := v.ValidateProject(p, known)
	if err == nil || !strings.Contains(err.Error(), "per field 'author_id'") {
		t.Fatalf("expected per field error, got %v", err)
	}

	p = testProject()
	p.Seeders[0].CreateTable = true
	p.Seeders[0].Values = map[string]any{"role": "admin"}
	if err := v.ValidateProject(p, known); err != nil {
		t.Fatalf("expected declared values key to pass, got %v", err)
	}
}
