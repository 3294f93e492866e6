package main

import (
	"context"
	"slices"
	"testing"

	"github.com/mmrzaf/seeder/internal/domain"
)

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{"role=admin", "age=42", "active=true", "note=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	if got["role"] != "admin" || got["age"] != 42 || got["active"] != true || got["note"] != "a=b" {
		t.Fatalf("unexpected overrides: %#v", got)
	}

	if _, err := parseOverrides([]string{"novalue"}); err == nil {
		t.Fatal("expected error for pair without '='")
	}
	if _, err := parseOverrides([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestShortID(t *testing.T) {
	if shortID("0123456789") != "01234567" || shortID("abc") != "abc" {
		t.Fatal("unexpected short id")
	}
}

func TestExplicitOptions(t *testing.T) {
	cmd := operationCmd(context.Background(), domain.OperationSeed, "")
	if err := cmd.ParseFlags([]string{"--refresh=false", "-n", "UserSeeder"}); err != nil {
		t.Fatal(err)
	}
	got := explicitOptions(cmd)
	slices.Sort(got)
	want := []string{domain.OptionName, domain.OptionRefresh}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got := explicitOptions(operationCmd(context.Background(), domain.OperationSeed, "")); len(got) != 0 {
		t.Fatalf("expected no explicit options, got %v", got)
	}
}
