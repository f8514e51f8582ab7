package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gamma-omg/pdf-ingest/docstore"
	"github.com/google/uuid"
)

type DocLoader interface {
	Load() ([]docstore.Document, error)
}

type Chunkifier interface {
	Chunkify(text string) ([]string, error)
}

type IDGenerator interface {
	NewIDs(n int) []string
}

type ChunkWriter interface {
	Write(ctx context.Context, chunks []docstore.Chunk, ids []string) error
}

// UUIDGenerator hands out random v4 UUIDs. Ids do not depend on chunk
// content, so ingesting the same files twice stores them twice.
type UUIDGenerator struct{}

func (UUIDGenerator) NewIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	return ids
}

// Ingestor runs load, split, id assignment and write once, in that order.
type Ingestor struct {
	log        *slog.Logger
	loader     DocLoader
	chunkifier Chunkifier
	ids        IDGenerator
	writer     ChunkWriter
}

// Run returns the number of chunks written.
func (in *Ingestor) Run(ctx context.Context) (int, error) {
	docs, err := in.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load documents: %w", err)
	}

	chunks, err := in.split(docs)
	if err != nil {
		return 0, err
	}

	ids := in.ids.NewIDs(len(chunks))
	in.log.Info("documents split", slog.Int("documents", len(docs)), slog.Int("chunks", len(chunks)))

	err = in.writer.Write(ctx, chunks, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(chunks), nil
}

func (in *Ingestor) split(docs []docstore.Document) ([]docstore.Chunk, error) {
	var chunks []docstore.Chunk
	for _, d := range docs {
		texts, err := in.chunkifier.Chunkify(d.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s page %d: %w", d.Metadata.Source, d.Metadata.Page, err)
		}

		for _, text := range texts {
			chunks = append(chunks, docstore.Chunk{
				Text:     text,
				Metadata: d.Metadata,
			})
		}
	}

	return chunks, nil
}
