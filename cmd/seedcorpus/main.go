/*
seedcorpus loads a local JSON fixture of Richmond context passages into the
configured Vector Client backend, grounded on cmd/migrateprojects's small
flag-driven one-shot CLI shape.

Usage:

	go run cmd/seedcorpus/main.go -file richmond_context.json

The fixture is a JSON array of objects:

	[{"id": "rva-001", "text": "...", "metadata": {"source": "..."}}, ...]
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ford-at-home/storygen-sub000/internal/config"
	"github.com/ford-at-home/storygen-sub000/internal/observability"
	"github.com/ford-at-home/storygen-sub000/internal/vectorclient"
)

type fixtureDoc struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

func main() {
	file := flag.String("file", "richmond_context.json", "path to the JSON corpus fixture")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "error: -file is required")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, *file); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var docs []fixtureDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	httpClient := observability.NewHTTPClient(nil)
	embedder := vectorclient.NewHTTPEmbedder(cfg.LLM.BaseURL, cfg.LLM.APIKey, "", httpClient)

	var backend vectorclient.Backend
	switch cfg.Vector.Backend {
	case "", "memory":
		backend = vectorclient.NewMemoryBackend()
	case "qdrant":
		backend, err = vectorclient.NewQdrantBackend(ctx, cfg.Vector.DSN, cfg.Vector.Collection, cfg.Vector.Dimensions, cfg.Vector.Metric)
		if err != nil {
			return fmt.Errorf("connect to qdrant: %w", err)
		}
	default:
		return fmt.Errorf("unsupported vector backend %q", cfg.Vector.Backend)
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed fixture: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	client := vectorclient.New(embedder, backend, cfg.Vector.TopK)
	for i, d := range docs {
		err := client.Seed(ctx, vectorclient.Document{
			ID:       d.ID,
			Text:     d.Text,
			Vector:   vectors[i],
			Metadata: d.Metadata,
		})
		if err != nil {
			return fmt.Errorf("seed document %q: %w", d.ID, err)
		}
	}

	fmt.Printf("seeded %d documents into the %q vector backend\n", len(docs), cfg.Vector.Backend)
	return nil
}
