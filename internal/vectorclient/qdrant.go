package vectorclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/ford-at-home/storygen-sub000/internal/observability"
)

// payloadTextField holds the chunk's raw text in Qdrant's payload so it can
// be returned alongside the similarity score without a second lookup.
const payloadTextField = "_text"
const payloadIDField = "_original_id"

// qdrantBackend is grounded closely on the teacher's
// internal/persistence/databases/qdrant_vector.go, trimmed to the
// Upsert/SimilaritySearch pair this spec's corpus needs (no Delete, no
// metadata filter — the corpus has no per-tenant or per-session
// partitioning).
type qdrantBackend struct {
	client     *qdrant.Client
	collection string
	dimension  int
	metric     string
}

// NewQdrantBackend connects to Qdrant over its gRPC API (default port 6334)
// and ensures the target collection exists with the configured vector
// dimension and distance metric.
func NewQdrantBackend(ctx context.Context, dsn, collection string, dimensions int, metric string) (Backend, error) {
	if strings.TrimSpace(collection) == "" {
		return nil, fmt.Errorf("vectorclient: collection name is required")
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("vectorclient: parse qdrant dsn: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := parsed.Port()
	if port == "" {
		port = "6334"
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("vectorclient: invalid qdrant port: %w", err)
	}
	cfg := &qdrant.Config{Host: host, Port: portNum}
	if parsed.Scheme == "https" {
		cfg.UseTLS = true
	}
	if apiKey := parsed.Query().Get("api_key"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if raw, err := json.Marshal(map[string]any{
		"host": host, "port": portNum, "collection": collection, "api_key": cfg.APIKey,
	}); err == nil {
		observability.LoggerWithTrace(ctx).Debug().
			RawJSON("connect", observability.RedactJSON(raw)).
			Msg("vectorclient: connecting to qdrant")
	}
	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vectorclient: create qdrant client: %w", err)
	}
	q := &qdrantBackend{
		client:     client,
		collection: collection,
		dimension:  dimensions,
		metric:     strings.ToLower(strings.TrimSpace(metric)),
	}
	if err := q.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("vectorclient: ensure collection: %w", err)
	}
	return q, nil
}

func (q *qdrantBackend) ensureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("check collection exists: %w", err)
	}
	if exists {
		return nil
	}
	var distance qdrant.Distance
	switch q.metric {
	case "l2", "euclidean":
		distance = qdrant.Distance_Euclid
	case "ip", "dot":
		distance = qdrant.Distance_Dot
	case "manhattan":
		distance = qdrant.Distance_Manhattan
	default:
		distance = qdrant.Distance_Cosine
	}
	if q.dimension <= 0 {
		return fmt.Errorf("qdrant requires dimensions > 0")
	}
	return q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dimension),
			Distance: distance,
		}),
	})
}

func (q *qdrantBackend) Upsert(ctx context.Context, doc Document) error {
	pointUUID := doc.ID
	if _, err := uuid.Parse(doc.ID); err != nil {
		pointUUID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(doc.ID)).String()
	}
	payload := map[string]any{payloadTextField: doc.Text}
	if pointUUID != doc.ID {
		payload[payloadIDField] = doc.ID
	}
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	vec := make([]float32, len(doc.Vector))
	copy(vec, doc.Vector)
	points := []*qdrant.PointStruct{{
		Id:      qdrant.NewIDUUID(pointUUID),
		Vectors: qdrant.NewVectorsDense(vec),
		Payload: qdrant.NewValueMap(payload),
	}}
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	return err
}

func (q *qdrantBackend) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]Chunk, error) {
	if k <= 0 {
		k = 5
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	limit := uint64(k)
	hits, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, 0, len(hits))
	for _, hit := range hits {
		id := hit.Id.GetUuid()
		if id == "" {
			id = hit.Id.String()
		}
		var text string
		if hit.Payload != nil {
			if orig, ok := hit.Payload[payloadIDField]; ok {
				id = orig.GetStringValue()
			}
			if t, ok := hit.Payload[payloadTextField]; ok {
				text = t.GetStringValue()
			}
		}
		chunks = append(chunks, Chunk{ID: id, Text: text, Score: float64(hit.Score)})
	}
	// Qdrant already returns hits ordered by descending score; break exact
	// ties by id deterministically, matching the memory backend's contract.
	for i := 1; i < len(chunks); i++ {
		j := i
		for j > 0 && chunks[j-1].Score == chunks[j].Score && chunks[j-1].ID > chunks[j].ID {
			chunks[j-1], chunks[j] = chunks[j], chunks[j-1]
			j--
		}
	}
	return chunks, nil
}
