package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxBatch is the most texts the Gemini and OpenAI embedding APIs
// accept in one request.
const DefaultMaxBatch = 100

var (
	ErrLengthMismatch = errors.New("chunks and ids differ in length")
	ErrEmptyEmbedding = errors.New("embedding is empty")
)

type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

type VectorStore interface {
	Upsert(ctx context.Context, records []Record) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Writer embeds chunks and upserts them into a VectorStore. Requests hold at
// most MaxBatch chunks (DefaultMaxBatch when zero) and, if RequestSize is
// positive, at most RequestSize characters of chunk text.
type Writer struct {
	Log         *slog.Logger
	Embedder    Embedder
	Store       VectorStore
	RequestSize int
	MaxBatch    int
}

func (w *Writer) Write(ctx context.Context, chunks []Chunk, ids []string) error {
	if len(chunks) != len(ids) {
		return fmt.Errorf("failed to write %d chunks with %d ids: %w", len(chunks), len(ids), ErrLengthMismatch)
	}

	before, err := w.Store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count collection: %w", err)
	}

	buckets := w.buckets(chunks)
	pos := 0
	for i, b := range buckets {
		err = w.writeBucket(ctx, chunks[pos:pos+b], ids[pos:pos+b])
		if err != nil {
			return fmt.Errorf("failed to write request %d/%d: %w", i+1, len(buckets), err)
		}

		w.Log.Debug("request stored", slog.Int("request", i+1), slog.Int("chunks", b))
		pos += b
	}

	after, err := w.Store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count collection: %w", err)
	}

	w.Log.Info("chunks stored",
		slog.Int("chunks", len(chunks)),
		slog.Int("requests", len(buckets)),
		slog.Int("count_before", before),
		slog.Int("count_after", after))

	return nil
}

func (w *Writer) writeBucket(ctx context.Context, chunks []Chunk, ids []string) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := w.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	if len(vectors) != len(chunks) {
		return fmt.Errorf("failed to embed chunks: got %d embeddings for %d texts: %w",
			len(vectors), len(chunks), ErrLengthMismatch)
	}

	records := make([]Record, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("failed to embed chunk %s: %w", ids[i], ErrEmptyEmbedding)
		}

		records[i] = Record{
			ID:       ids[i],
			Text:     c.Text,
			Metadata: c.Metadata,
			Vector:   vectors[i],
		}
	}

	return w.Store.Upsert(ctx, records)
}

// buckets returns the number of chunks that go into each request.
func (w *Writer) buckets(chunks []Chunk) []int {
	if len(chunks) == 0 {
		return nil
	}

	maxBatch := w.MaxBatch
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}

	var res []int
	n, size := 0, 0
	for _, c := range chunks {
		l := utf8.RuneCountInString(c.Text)
		full := n >= maxBatch || (w.RequestSize > 0 && size+l > w.RequestSize)
		if n > 0 && full {
			res = append(res, n)
			n, size = 0, 0
		}

		n++
		size += l
	}

	return append(res, n)
}
