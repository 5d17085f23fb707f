package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("VECTOR_BACKEND", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 3.0, cfg.DepthCutoff)
	assert.Equal(t, 10, cfg.MinCoreIdea)
	assert.Equal(t, "memory", cfg.Vector.Backend)
	assert.Equal(t, 5, cfg.Vector.TopK)
}

func TestRequiredSecrets_MissingLLMKey(t *testing.T) {
	cfg := Config{Vector: VectorConfig{Backend: "memory"}}
	err := cfg.RequiredSecrets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestRequiredSecrets_QdrantNeedsDSN(t *testing.T) {
	cfg := Config{LLM: LLMConfig{APIKey: "k"}, Vector: VectorConfig{Backend: "qdrant"}}
	err := cfg.RequiredSecrets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VECTOR_DSN")
}

func TestStyleByID(t *testing.T) {
	s, ok := StyleByID("long_post")
	require.True(t, ok)
	assert.Equal(t, 2048, s.MaxTokens)

	_, ok = StyleByID("nonexistent")
	assert.False(t, ok)
}

func TestLoadStyleOverrides_UpdatesMatchingStyle(t *testing.T) {
	original := Styles
	defer func() { Styles = original }()

	path := t.TempDir() + "/styles.yaml"
	require.NoError(t, writeFile(path, `
- id: short_post
  name: Short Post
  description: A punchier, tighter take.
  max_tokens: 900
`))

	require.NoError(t, LoadStyleOverrides(path))
	s, ok := StyleByID("short_post")
	require.True(t, ok)
	assert.Equal(t, 900, s.MaxTokens)
	assert.Equal(t, "A punchier, tighter take.", s.Description)
}

func TestLoadStyleOverrides_RejectsUnknownID(t *testing.T) {
	original := Styles
	defer func() { Styles = original }()

	path := t.TempDir() + "/styles.yaml"
	require.NoError(t, writeFile(path, `
- id: epic_poem
  name: Epic Poem
  max_tokens: 500
`))

	err := LoadStyleOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epic_poem")
}
