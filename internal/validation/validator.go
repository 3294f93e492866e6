package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/registry"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// identifier validation: allow simple SQL identifiers only (prevents injection via table/column names).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

// ValidateDefinition checks a factory definition before it is compiled into
// a factory storage.
func (v *Validator) ValidateDefinition(def *domain.FactoryDefinition) error {
	if def.Name == "" {
		return errors.New("factory name is required")
	}

	fieldNames := make(map[string]bool)
	for _, field := range def.Fields {
		if err := v.validateField(&field, fieldNames); err != nil {
			return fmt.Errorf("field '%s': %w", field.Name, err)
		}
	}

	graph := make(map[string][]string, len(def.Fields))
	for _, field := range def.Fields {
		for _, dep := range field.DependsOn {
			if !fieldNames[dep] {
				return fmt.Errorf("field '%s': depends on undeclared field '%s'", field.Name, dep)
			}
		}
		graph[field.Name] = field.DependsOn
	}
	if hasCycle(graph) {
		return errors.New("cyclic field dependencies detected")
	}

	return nil
}

func (v *Validator) validateField(field *domain.FieldDefinition, fieldNames map[string]bool) error {
	if field.Name == "" {
		return errors.New("field name is required")
	}
	if !IsValidIdentifier(field.Name) {
		return fmt.Errorf("invalid field identifier: %s", field.Name)
	}
	if fieldNames[field.Name] {
		return fmt.Errorf("duplicate field name: %s", field.Name)
	}
	fieldNames[field.Name] = true

	if field.Type != "" && !isValidColumnType(field.Type) {
		return fmt.Errorf("invalid column type: %s", field.Type)
	}

	if field.Generator == nil {
		return nil
	}
	if field.Value != nil {
		return errors.New("only one of value or generator may be set")
	}
	if field.Generator.Type == "" {
		return errors.New("generator type is required")
	}
	gen, err := v.genRegistry.Get(field.Generator.Type)
	if err != nil {
		return err
	}
	if err := gen.Validate(*field.Generator); err != nil {
		return fmt.Errorf("generator validation failed: %w", err)
	}
	return nil
}

func isValidColumnType(t domain.ColumnType) bool {
	switch t {
	case domain.ColumnTypeInt, domain.ColumnTypeBigInt, domain.ColumnTypeFloat,
		domain.ColumnTypeDouble, domain.ColumnTypeString, domain.ColumnTypeText,
		domain.ColumnTypeBool, domain.ColumnTypeTimestamp, domain.ColumnTypeDate,
		domain.ColumnTypeUUID:
		return true
	default:
		return false
	}
}

// ValidateProject checks the target and every seeder of p. known maps factory
// names to their definitions.
func (v *Validator) ValidateProject(p *domain.Project, known map[string]*domain.FactoryDefinition) error {
	if err := v.ValidateTarget(&p.Target); err != nil {
		return fmt.Errorf("target validation failed: %w", err)
	}

	names := make(map[string]bool)
	for _, s := range p.Seeders {
		if err := v.validateSeeder(&s, names, known); err != nil {
			return fmt.Errorf("seeder '%s': %w", s.Name, err)
		}
	}
	return nil
}

func (v *Validator) validateSeeder(s *domain.SeederSpec, names map[string]bool, known map[string]*domain.FactoryDefinition) error {
	if s.Name == "" {
		return errors.New("seeder name is required")
	}
	if names[s.Name] {
		return fmt.Errorf("duplicate seeder name: %s", s.Name)
	}
	names[s.Name] = true

	if s.Table == "" {
		return errors.New("table is required")
	}
	if !IsValidIdentifier(s.Table) {
		return fmt.Errorf("invalid table identifier: %s", s.Table)
	}
	if s.Factory == "" {
		return errors.New("factory is required")
	}
	def, ok := known[s.Factory]
	if !ok {
		return fmt.Errorf("factory not found: %s", s.Factory)
	}
	if s.Count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", s.Count)
	}
	if s.DummyCount < 0 {
		return fmt.Errorf("dummy_count must be >= 0, got %d", s.DummyCount)
	}
	if s.BatchSize < 0 {
		return fmt.Errorf("batch_size must be >= 0, got %d", s.BatchSize)
	}
	for k := range s.Values {
		if !IsValidIdentifier(k) {
			return fmt.Errorf("invalid column identifier in values: %s", k)
		}
	}
	if s.CreateTable {
		declared := make(map[string]bool, len(def.Fields))
		for _, f := range def.Fields {
			if f.Type == "" {
				return fmt.Errorf("create_table requires a type for field '%s'", f.Name)
			}
			declared[f.Name] = true
		}
		for k := range s.Values {
			if !declared[k] {
				return fmt.Errorf("create_table requires values key '%s' to be a field of %s", k, def.Name)
			}
		}
		if s.Per != nil && !declared[s.Per.Field] {
			return fmt.Errorf("create_table requires per field '%s' to be a field of %s", s.Per.Field, def.Name)
		}
	}

	if s.Per != nil {
		if s.Per.Table == "" || s.Per.Column == "" || s.Per.Field == "" {
			return errors.New("per must include table, column and field")
		}
		for _, id := range []string{s.Per.Table, s.Per.Column, s.Per.Field} {
			if !IsValidIdentifier(id) {
				return fmt.Errorf("invalid per identifier: %s", id)
			}
		}
	}
	return nil
}

func hasCycle(graph map[string][]string) bool {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for node := range graph {
		if !visited[node] {
			if hasCycleDFS(node, graph, visited, recStack) {
				return true
			}
		}
	}
	return false
}

func hasCycleDFS(node string, graph map[string][]string, visited, recStack map[string]bool) bool {
	visited[node] = true
	recStack[node] = true

	for _, neighbor := range graph[node] {
		if !visited[neighbor] {
			if hasCycleDFS(neighbor, graph, visited, recStack) {
				return true
			}
		} else if recStack[neighbor] {
			return true
		}
	}

	recStack[node] = false
	return false
}

func (v *Validator) ValidateTarget(t *domain.TargetConfig) error {
	if t.Kind == "" {
		return errors.New("target kind is required")
	}
	if t.DSN == "" {
		return errors.New("target dsn is required")
	}
	if t.Database != "" && !IsValidIdentifier(t.Database) {
		return fmt.Errorf("invalid target database identifier: %s", t.Database)
	}

	switch t.Kind {
	case domain.TargetKindPostgres:
		if t.Schema != "" && !IsValidIdentifier(t.Schema) {
			return fmt.Errorf("invalid target schema identifier: %s", t.Schema)
		}
	case domain.TargetKindSQLite:
		if t.Schema != "" {
			return fmt.Errorf("%s targets must not set schema", t.Kind)
		}
	default:
		return fmt.Errorf("unsupported target kind: %s", t.Kind)
	}

	return nil
}
