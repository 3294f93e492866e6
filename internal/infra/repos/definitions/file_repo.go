package definitions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmrzaf/seeder/internal/domain"
	"gopkg.in/yaml.v3"
)

type Repository interface {
	List() ([]*domain.FactoryDefinition, error)
	Get(name string) (*domain.FactoryDefinition, error)
	GetByPath(path string) (*domain.FactoryDefinition, error)
}

// FileRepository reads factory definitions from .yaml, .yml and .json files
// in a single directory.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) BaseDir() string {
	return r.baseDir
}

// List returns the definitions sorted by file name. A file that fails to parse
// fails the whole listing.
func (r *FileRepository) List() ([]*domain.FactoryDefinition, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.FactoryDefinition{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	defs := make([]*domain.FactoryDefinition, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}

		path := filepath.Join(r.baseDir, entry.Name())
		def, err := r.loadDefinition(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		defs = append(defs, def)
	}

	return defs, nil
}

func (r *FileRepository) Get(name string) (*domain.FactoryDefinition, error) {
	defs, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, d := range defs {
		if d.Name == name {
			return d, nil
		}
	}

	return nil, fmt.Errorf("factory not found: %s", name)
}

// GetByPath loads one definition. Relative paths are resolved against the base
// directory; paths outside it are rejected.
func (r *FileRepository) GetByPath(path string) (*domain.FactoryDefinition, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q is outside the factories directory", path)
	}
	return r.loadDefinition(path)
}

func (r *FileRepository) loadDefinition(path string) (*domain.FactoryDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def domain.FactoryDefinition
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &def)
	} else {
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, err
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &def, nil
}

func isDefinitionFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
