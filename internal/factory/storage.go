package factory

import (
	"reflect"
	"sync"
)

// PropertyMetadata declares how one field of a data class is generated.
type PropertyMetadata struct {
	Target    any
	Name      string
	Generator any
	DependsOn []string
}

// Storage is an append-only table of field declarations keyed by the data
// class they belong to.
type Storage struct {
	mu         sync.RWMutex
	properties []PropertyMetadata
}

func NewStorage() *Storage {
	return &Storage{}
}

var (
	defaultStorage     *Storage
	defaultStorageOnce sync.Once
)

// DefaultStorage returns the process-wide storage, creating it on first use.
func DefaultStorage() *Storage {
	defaultStorageOnce.Do(func() {
		defaultStorage = NewStorage()
	})
	return defaultStorage
}

// Register appends a declaration. Declarations for an already registered field
// are kept; the factory treats the most recent one as authoritative.
func (s *Storage) Register(target any, name string, generator any, dependsOn ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = append(s.properties, PropertyMetadata{
		Target:    target,
		Name:      name,
		Generator: generator,
		DependsOn: append([]string(nil), dependsOn...),
	})
}

// Lookup returns every declaration registered for target, in registration order.
func (s *Storage) Lookup(target any) []PropertyMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PropertyMetadata, 0)
	if !isValidTarget(target) {
		return out
	}
	for _, p := range s.properties {
		if isValidTarget(p.Target) && p.Target == target {
			out = append(out, p)
		}
	}
	return out
}

// Targets lists distinct registered targets in first-registration order.
func (s *Storage) Targets() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[any]bool)
	out := make([]any, 0)
	for _, p := range s.properties {
		if !isValidTarget(p.Target) || seen[p.Target] {
			continue
		}
		seen[p.Target] = true
		out = append(out, p.Target)
	}
	return out
}

// TypeOf returns the identity used for data classes declared as Go types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isValidTarget(target any) bool {
	if target == nil {
		return false
	}
	// the dynamic value matters: an interface field may hold a slice
	return reflect.ValueOf(target).Comparable()
}
