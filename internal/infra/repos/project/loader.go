package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmrzaf/seeder/internal/domain"
	"gopkg.in/yaml.v3"
)

const defaultFactoriesDir = "factories"

// Load reads a project file. A relative factories_dir is resolved against the
// directory holding the file and defaults to "factories" next to it.
func Load(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var p domain.Project
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("unsupported project file extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}

	if p.FactoriesDir == "" {
		p.FactoriesDir = defaultFactoriesDir
	}
	if !filepath.IsAbs(p.FactoriesDir) {
		p.FactoriesDir = filepath.Join(filepath.Dir(path), p.FactoriesDir)
	}
	if p.Target.Name == "" {
		p.Target.Name = p.Target.Kind
	}
	return &p, nil
}
