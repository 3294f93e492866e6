package hashing

import (
	"testing"

	"github.com/mmrzaf/seeder/internal/domain"
)

func testProject() (*domain.Project, []*domain.FactoryDefinition) {
	p := &domain.Project{
		Name: "demo",
		Seeders: []domain.SeederSpec{
			{Name: "UserSeeder", Factory: "User", Table: "users", Count: 10, DummyCount: 50},
		},
	}
	defs := []*domain.FactoryDefinition{
		{
			Name: "User",
			Fields: []domain.FieldDefinition{
				{Name: "id", Type: domain.ColumnTypeInt, Generator: &domain.GeneratorSpec{Type: "uniform_int", Params: map[string]interface{}{"min": 1, "max": 10}}},
			},
		},
		{Name: "Post", Fields: []domain.FieldDefinition{{Name: "title", Value: "hello"}}},
	}
	return p, defs
}

func TestHashProject_StableAndSensitive(t *testing.T) {
	p, defs := testProject()
	h1, err := HashProject(p, defs)
	if err != nil {
		t.Fatal(err)
	}

	reordered := []*domain.FactoryDefinition{defs[1], defs[0]}
	h2, err := HashProject(p, reordered)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatal("expected definition order not to affect hash")
	}

	p.Seeders[0].Count = 11
	h3, err := HashProject(p, defs)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h3 {
		t.Fatal("expected seeder count to affect hash")
	}

	p.Seeders[0].Count = 10
	defs[0].Fields[0].Generator.Params["max"] = 20
	h4, err := HashProject(p, defs)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h4 {
		t.Fatal("expected generator params to affect hash")
	}
}

func TestHashRunConfig_IncludesOperationOptionsAndSeed(t *testing.T) {
	tg := &domain.TargetConfig{Kind: "postgres", DSN: "postgres://localhost:5432/app?sslmode=disable"}
	base := domain.RunOptions{Name: []string{"UserSeeder"}}

	h1, err := HashRunConfig("p", tg, domain.OperationSeed, base, 11)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashRunConfig("p", tg, domain.OperationDrop, base, 11)
	if err != nil {
		t.Fatal(err)
	}
	h3, err := HashRunConfig("p", tg, domain.OperationSeed, domain.RunOptions{Name: []string{"UserSeeder"}, DummyData: true}, 11)
	if err != nil {
		t.Fatal(err)
	}
	h4, err := HashRunConfig("p", tg, domain.OperationSeed, base, 12)
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Fatal("expected operation to affect hash")
	}
	if h1 == h3 {
		t.Fatal("expected dummy data to affect hash")
	}
	if h1 == h4 {
		t.Fatal("expected seed to affect hash")
	}

	h5, err := HashRunConfig("p", tg, domain.OperationRun, domain.RunOptions{Name: []string{"B", "A"}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	h6, err := HashRunConfig("p", tg, domain.OperationRun, domain.RunOptions{Name: []string{"A", "B"}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if h5 != h6 {
		t.Fatal("expected seeder name order not to affect hash")
	}
}
