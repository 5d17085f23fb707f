package vectorclient

import (
	"context"
	"math"
	"sort"
	"sync"
)

// memoryBackend is an in-memory cosine-similarity index, grounded on the
// teacher's internal/persistence/databases/memory_vector.go, adapted to
// return Chunks directly and to break score ties deterministically by id
// (spec §4.4: "Deterministic ordering by descending score; ties broken by
// chunk id" — the teacher's version has no tie-break, since it never needed
// one).
type memoryBackend struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryBackend constructs an empty in-memory vector index.
func NewMemoryBackend() Backend {
	return &memoryBackend{docs: make(map[string]Document)}
}

func (m *memoryBackend) Upsert(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vec := make([]float32, len(doc.Vector))
	copy(vec, doc.Vector)
	doc.Vector = vec
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryBackend) SimilaritySearch(_ context.Context, vector []float32, k int) ([]Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 {
		k = 5
	}
	qnorm := l2norm(vector)
	chunks := make([]Chunk, 0, len(m.docs))
	for id, doc := range m.docs {
		chunks = append(chunks, Chunk{
			ID:    id,
			Text:  doc.Text,
			Score: cosine(vector, doc.Vector, qnorm),
		})
	}
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		return chunks[i].ID < chunks[j].ID
	})
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}

func l2norm(a []float32) float64 {
	var s float64
	for _, x := range a {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func cosine(a, b []float32, anorm float64) float64 {
	if anorm == 0 {
		anorm = l2norm(a)
	}
	bnorm := l2norm(b)
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	return dot(a, b) / (anorm * bnorm)
}
