package validation

import (
	"testing"

	"github.com/mmrzaf/seeder/internal/domain"
)

func TestIsValidIdentifier(t *testing.T) {
	ok := []string{"a", "A", "_a", "a1", "a_b2", "snake_case_123", "firstName"}
	bad := []string{"", "1a", "a-b", "a b", "a;b", "a\"b", "a.b", "a/b", "a--", "select", "from", "order", "table", "group", "user", "returning"}

	for _, s := range ok {
		if !IsValidIdentifier(s) {
			t.Fatalf("expected valid: %q", s)
		}
	}
	for _, s := range bad {
		if IsValidIdentifier(s) {
			t.Fatalf("expected invalid: %q", s)
		}
	}
}

func TestHasCycle(t *testing.T) {
	if hasCycle(map[string][]string{"a": {"b"}, "b": {"c"}, "c": nil}) {
		t.Fatal("unexpected cycle in chain")
	}
	if !hasCycle(map[string][]string{"a": {"b"}, "b": {"a"}}) {
		t.Fatal("expected two-node cycle")
	}
	if !hasCycle(map[string][]string{"a": {"a"}}) {
		t.Fatal("expected self cycle")
	}
}

func TestIsValidColumnType(t *testing.T) {
	for _, ct := range []domain.ColumnType{domain.ColumnTypeInt, domain.ColumnTypeText, domain.ColumnTypeUUID, domain.ColumnTypeTimestamp} {
		if !isValidColumnType(ct) {
			t.Fatalf("expected valid column type %q", ct)
		}
	}
	if isValidColumnType("varchar(10)") || isValidColumnType("") {
		t.Fatal("expected invalid column types")
	}
}
