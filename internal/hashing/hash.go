package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mmrzaf/seeder/internal/domain"
)

// HashProject fingerprints the seeders of p and the factory definitions they
// draw from. Target connection details are left out; see HashRunConfig.
func HashProject(p *domain.Project, defs []*domain.FactoryDefinition) (string, error) {
	canonical := map[string]interface{}{
		"name":      p.Name,
		"seeders":   canonicalizeSeeders(p.Seeders),
		"factories": canonicalizeDefinitions(defs),
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeSeeders(seeders []domain.SeederSpec) []map[string]interface{} {
	out := make([]map[string]interface{}, len(seeders))
	for i, s := range seeders {
		m := map[string]interface{}{
			"name":         s.Name,
			"factory":      s.Factory,
			"table":        s.Table,
			"count":        s.Count,
			"dummy_count":  s.DummyCount,
			"batch_size":   s.BatchSize,
			"create_table": s.CreateTable,
		}
		if len(s.Values) > 0 {
			m["values"] = canonicalizeParams(s.Values)
		}
		if s.Per != nil {
			m["per"] = map[string]interface{}{
				"table":  s.Per.Table,
				"column": s.Per.Column,
				"field":  s.Per.Field,
			}
		}
		out[i] = m
	}
	return out
}

func canonicalizeDefinitions(defs []*domain.FactoryDefinition) []map[string]interface{} {
	sorted := append([]*domain.FactoryDefinition(nil), defs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := make([]map[string]interface{}, len(sorted))
	for i, def := range sorted {
		fields := make([]map[string]interface{}, len(def.Fields))
		for j, f := range def.Fields {
			fm := map[string]interface{}{
				"name": f.Name,
				"type": f.Type,
			}
			if f.Value != nil {
				fm["value"] = f.Value
			}
			if f.Generator != nil {
				fm["generator"] = canonicalizeGeneratorSpec(*f.Generator)
			}
			if len(f.DependsOn) > 0 {
				fm["depends_on"] = f.DependsOn
			}
			fields[j] = fm
		}
		out[i] = map[string]interface{}{
			"name":   def.Name,
			"fields": fields,
		}
	}
	return out
}

func canonicalizeGeneratorSpec(spec domain.GeneratorSpec) map[string]interface{} {
	result := map[string]interface{}{
		"type": spec.Type,
	}
	if len(spec.Params) > 0 {
		result["params"] = canonicalizeParams(spec.Params)
	}
	return result
}

func canonicalizeParams(params map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(params))
	for k, v := range params {
		if nested, ok := v.(map[string]interface{}); ok {
			result[k] = canonicalizeParams(nested)
			continue
		}
		result[k] = v
	}
	return result
}
