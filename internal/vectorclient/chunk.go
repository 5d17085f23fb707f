// Package vectorclient is the Vector Client: top-k similarity retrieval
// against the pre-populated Richmond context corpus (spec §4.4). It exposes
// one operation, Retrieve(query, k) -> ordered []Chunk, deterministically
// ordered by descending score with ties broken by chunk id, backed by either
// Qdrant or an in-memory cosine index behind a single Backend interface —
// grounded on the teacher's internal/persistence/databases.VectorStore split
// (qdrant_vector.go / memory_vector.go).
package vectorclient

// Chunk is one retrieved corpus passage (spec §4.4: "Chunk = {id, text,
// score}").
type Chunk struct {
	ID    string
	Text  string
	Score float64
}
