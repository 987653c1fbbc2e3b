package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stochrammar/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Seeded)
	assert.Equal(t, engine.KindSequence, cfg.EngineKind())
	assert.Equal(t, engine.DepthFirst, cfg.TraversalOrder())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
engine: tree
traversal: bfs
seed: 42
count: 5
buffer_size: 8
format: json
max_replacements: 1000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, engine.KindTree, cfg.EngineKind())
	assert.Equal(t, engine.BreadthFirst, cfg.TraversalOrder())
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.Seeded)
	assert.Equal(t, 5, cfg.Count)
	assert.Equal(t, 8, cfg.BufferSize)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 1000, cfg.MaxReplacements)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "count: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, "sequence", cfg.Engine)
	assert.Equal(t, engine.DefaultBufferSize, cfg.BufferSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "engine: tree\ncount: 2\n")
	t.Setenv("STOCHRAMMAR_ENGINE", "sequence")
	t.Setenv("STOCHRAMMAR_BUFFER_SIZE", "64")
	t.Setenv("STOCHRAMMAR_SEED", "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sequence", cfg.Engine)
	assert.Equal(t, 64, cfg.BufferSize)
	assert.Equal(t, 2, cfg.Count)
	assert.True(t, cfg.Seeded, "an explicit zero seed is still a seed")
	assert.Equal(t, uint64(0), cfg.Seed)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"bad engine", "engine: quantum\n", "unknown engine"},
		{"bad traversal", "traversal: sideways\n", "unknown traversal"},
		{"zero count", "count: 0\n", "count must be at least 1"},
		{"zero buffer", "buffer_size: 0\n", "buffer_size must be at least 1"},
		{"bad format", "format: xml\n", "format must be"},
		{"negative budget", "max_replacements: -1\n", "max_replacements must be non-negative"},
		{"bad yaml", "engine: [tree\n", "failed to load config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat config file")
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
