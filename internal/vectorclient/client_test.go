package vectorclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return [][]float32{f.vector}, nil
}

func TestRetrieve_OrdersByDescendingScoreTieBrokenByID(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Upsert(ctx, Document{ID: "b", Text: "second", Vector: []float32{1, 0}}))
	require.NoError(t, backend.Upsert(ctx, Document{ID: "a", Text: "first-tie", Vector: []float32{1, 0}}))
	require.NoError(t, backend.Upsert(ctx, Document{ID: "c", Text: "lower", Vector: []float32{0, 1}}))

	client := New(&fakeEmbedder{vector: []float32{1, 0}}, backend, 5)
	chunks := client.Retrieve(ctx, "query", 5)

	require.Len(t, chunks, 3)
	assert.Equal(t, "a", chunks[0].ID) // tie with "b" at score 1.0, "a" < "b"
	assert.Equal(t, "b", chunks[1].ID)
	assert.Equal(t, "c", chunks[2].ID)
}

func TestRetrieve_RespectsK(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	for _, id := range []string{"x", "y", "z"} {
		require.NoError(t, backend.Upsert(ctx, Document{ID: id, Text: id, Vector: []float32{1, 0}}))
	}
	client := New(&fakeEmbedder{vector: []float32{1, 0}}, backend, 5)
	chunks := client.Retrieve(ctx, "query", 2)
	assert.Len(t, chunks, 2)
}

func TestRetrieve_DegradesToEmptyOnEmbedderFailure(t *testing.T) {
	backend := NewMemoryBackend()
	client := New(&fakeEmbedder{err: errors.New("embedding service down")}, backend, 5)
	chunks := client.Retrieve(context.Background(), "query", 5)
	assert.Empty(t, chunks)
}
