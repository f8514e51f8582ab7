package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/philippgille/chromem-go"
)

var errNoEmbedding = errors.New("chromem store expects precomputed embeddings")

// ChromemStore keeps the collection in an embedded chromem-go database
// persisted under a local directory.
type ChromemStore struct {
	db  *chromem.DB
	col *chromem.Collection
}

type ChromemStoreConfig struct {
	Path       string
	Collection string
	Compress   bool
}

func NewChromemStore(cfg ChromemStoreConfig) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open chromem db at %s: %w", cfg.Path, err)
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, map[string]string{"hnsw:space": "cosine"}, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", cfg.Collection, err)
	}

	return &ChromemStore{db: db, col: col}, nil
}

// noEmbedding keeps chromem from calling its default OpenAI embedder when a
// document arrives without a vector.
func noEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errNoEmbedding
}

func (s *ChromemStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		docs[i] = chromem.Document{
			ID:        r.ID,
			Metadata:  r.Metadata.strings(),
			Embedding: r.Vector,
			Content:   r.Text,
		}
	}

	err := s.col.AddDocuments(ctx, docs, 1)
	if err != nil {
		return fmt.Errorf("failed to add documents to chromem: %w", err)
	}

	return nil
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.col.Count(), nil
}

func (s *ChromemStore) Close() error {
	return nil
}
