package vectorclient

import (
	"context"

	"github.com/ford-at-home/storygen-sub000/internal/observability"
)

// Client is the Vector Client surface the Conversation Engine calls: a
// single Retrieve(query, k) operation (spec §4.4). On any embedder or
// backend failure it degrades to an empty result set rather than failing
// the caller — the engine is responsible for turning an empty result into
// the "no local context retrieved" system turn (spec §4.4, §7).
type Client struct {
	embedder Embedder
	backend  Backend
	defaultK int
}

// New constructs a Vector Client over a given Embedder and Backend.
func New(embedder Embedder, backend Backend, defaultK int) *Client {
	if defaultK <= 0 {
		defaultK = 5
	}
	return &Client{embedder: embedder, backend: backend, defaultK: defaultK}
}

// Retrieve embeds query and returns the top-k most similar corpus chunks,
// ordered by descending score with ties broken by ascending chunk id. It
// never returns an error: retrieval failures degrade to an empty slice, per
// spec §4.4 ("the engine MAY proceed with an empty context ... MUST NOT
// fail the overall turn solely due to retrieval error").
func (c *Client) Retrieve(ctx context.Context, query string, k int) []Chunk {
	if k <= 0 {
		k = c.defaultK
	}
	log := observability.LoggerWithTrace(ctx)
	vectors, err := c.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		log.Warn().Err(err).Msg("vectorclient: embedding query failed, degrading to empty context")
		return nil
	}
	chunks, err := c.backend.SimilaritySearch(ctx, vectors[0], k)
	if err != nil {
		log.Warn().Err(err).Msg("vectorclient: similarity search failed, degrading to empty context")
		return nil
	}
	return chunks
}

// Seed upserts a pre-embedded corpus document into the backend. Used by
// cmd/seedcorpus, never by the request-serving path.
func (c *Client) Seed(ctx context.Context, doc Document) error {
	return c.backend.Upsert(ctx, doc)
}
