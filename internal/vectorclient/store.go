package vectorclient

import "context"

// Document is one corpus passage at index time: text plus a precomputed
// embedding. Seeding the corpus (cmd/seedcorpus) upserts Documents; the
// engine only ever calls Retrieve.
type Document struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]string
}

// Backend is the minimum pluggable vector index interface, grounded on the
// teacher's internal/persistence/databases.VectorStore (trimmed to the two
// operations this spec's corpus-seeding and retrieval flow actually needs;
// the teacher's Delete is not exercised by any SPEC_FULL.md operation).
type Backend interface {
	Upsert(ctx context.Context, doc Document) error
	SimilaritySearch(ctx context.Context, vector []float32, k int) ([]Chunk, error)
}
