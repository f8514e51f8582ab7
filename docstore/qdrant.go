package docstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// qdrantClient is the part of *qdrant.Client the store needs.
type qdrantClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
	Close() error
}

type QdrantStoreConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// QdrantStore writes records as points. The collection is created on the
// first upsert, sized to the first vector.
type QdrantStore struct {
	client     qdrantClient
	collection string
	exists     bool
}

func NewQdrantStore(ctx context.Context, cfg QdrantStoreConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	exists, err := client.CollectionExists(ctx, cfg.Collection)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check qdrant collection %s: %w", cfg.Collection, err)
	}

	return &QdrantStore{client: client, collection: cfg.Collection, exists: exists}, nil
}

func (s *QdrantStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	if !s.exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(len(records[0].Vector)),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create qdrant collection %s: %w", s.collection, err)
		}

		s.exists = true
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(r.ID),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				TextKey:       r.Text,
				SourceKey:     r.Metadata.Source,
				PageKey:       int64(r.Metadata.Page),
				TotalPagesKey: int64(r.Metadata.TotalPages),
			}),
		}
	}

	res, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points to qdrant: %w", len(points), err)
	}

	status := res.GetStatus()
	if status != qdrant.UpdateStatus_Acknowledged && status != qdrant.UpdateStatus_Completed {
		return fmt.Errorf("failed to upsert points to qdrant, status: %s", status)
	}

	return nil
}

func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	if !s.exists {
		return 0, nil
	}

	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count qdrant collection %s: %w", s.collection, err)
	}

	return int(n), nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}
