package docstore

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// chromaCollection is the part of chroma.Collection the store needs.
type chromaCollection interface {
	Upsert(ctx context.Context, opts ...chroma.CollectionUpdateOption) error
	Count(ctx context.Context) (int, error)
	Close() error
}

type ChromaStore struct {
	col chromaCollection
}

type ChromaStoreConfig struct {
	BaseURL    string
	Collection string
	// EmbeddingFunc is attached to the collection for server-side queries.
	// Records are always written with their vectors.
	EmbeddingFunc embeddings.EmbeddingFunction
}

func NewChromaStore(ctx context.Context, cfg ChromaStoreConfig) (*ChromaStore, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	var opts []chroma.CreateCollectionOption
	if cfg.EmbeddingFunc != nil {
		opts = append(opts, chroma.WithEmbeddingFunctionCreate(cfg.EmbeddingFunc))
	}

	col, err := client.GetOrCreateCollection(ctx, cfg.Collection, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", cfg.Collection, err)
	}

	return &ChromaStore{col: col}, nil
}

func (ds *ChromaStore) Upsert(ctx context.Context, records []Record) error {
	ids := make([]chroma.DocumentID, len(records))
	texts := make([]string, len(records))
	metas := make([]chroma.DocumentMetadata, len(records))
	embs := make([]embeddings.Embedding, len(records))

	for i, r := range records {
		ids[i] = chroma.DocumentID(r.ID)
		texts[i] = r.Text
		metas[i] = chroma.NewDocumentMetadata(
			chroma.NewStringAttribute(SourceKey, r.Metadata.Source),
			chroma.NewIntAttribute(PageKey, int64(r.Metadata.Page)),
			chroma.NewIntAttribute(TotalPagesKey, int64(r.Metadata.TotalPages)),
		)
		embs[i] = embeddings.NewEmbeddingFromFloat32(r.Vector)
	}

	err := ds.col.Upsert(ctx,
		chroma.WithIDs(ids...),
		chroma.WithTexts(texts...),
		chroma.WithMetadatas(metas...),
		chroma.WithEmbeddings(embs...),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %d records to chroma: %w", len(records), err)
	}

	return nil
}

func (ds *ChromaStore) Count(ctx context.Context) (int, error) {
	n, err := ds.col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count chroma collection: %w", err)
	}

	return n, nil
}

func (ds *ChromaStore) Close() error {
	return ds.col.Close()
}
