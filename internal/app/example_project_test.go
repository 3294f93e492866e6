package app

import (
	"testing"

	"github.com/mmrzaf/seeder/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleProjectValidates(t *testing.T) {
	svc := NewRunService(Options{ProjectPath: "../../examples/blog/seeder.yaml"}, nil, registry.DefaultGeneratorRegistry(), nil)
	ws, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, ws.Project.Seeders, 2)
	assert.Len(t, ws.Definitions, 2)

	recs, err := svc.Preview("Post", 3, map[string]any{"author_id": "u1"})
	require.NoError(t, err)
	for _, r := range recs {
		assert.Equal(t, "u1", r["author_id"])
		assert.Equal(t, "draft", r["status"])
	}
}
