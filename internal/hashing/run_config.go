package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mmrzaf/seeder/internal/domain"
)

type runConfigHashPayload struct {
	ProjectHash  string           `json:"project_hash"`
	TargetKind   string           `json:"target_kind"`
	TargetSchema string           `json:"target_schema,omitempty"`
	TargetDSN    string           `json:"target_dsn"`
	Operation    domain.Operation `json:"operation"`
	Seeders      []string         `json:"seeders"`
	Refresh      bool             `json:"refresh"`
	DummyData    bool             `json:"dummy_data"`
	Seed         int64            `json:"seed"`
}

// HashRunConfig identifies one invocation: the project hash plus where it
// writes, which seeders it selects and the options it runs with.
func HashRunConfig(projectHash string, target *domain.TargetConfig, op domain.Operation, opts domain.RunOptions, seed int64) (string, error) {
	names := append([]string{}, opts.Name...)
	sort.Strings(names)

	p := runConfigHashPayload{
		ProjectHash:  projectHash,
		TargetKind:   target.Kind,
		TargetSchema: target.Schema,
		TargetDSN:    target.DSN,
		Operation:    op,
		Seeders:      names,
		Refresh:      opts.Refresh,
		DummyData:    opts.DummyData,
		Seed:         seed,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
