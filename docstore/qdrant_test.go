package docstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQdrant struct {
	mock.Mock
}

func (m *mockQdrant) CollectionExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockQdrant) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockQdrant) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*qdrant.UpdateResult)
	return res, args.Error(1)
}

func (m *mockQdrant) Count(ctx context.Context, req *qdrant.CountPoints) (uint64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockQdrant) Close() error {
	return m.Called().Error(0)
}

var qdrantRecords = []Record{
	{
		ID:       "5f0c2a5e-6a4b-4a4e-9d7b-2f7b8f1a9c11",
		Text:     "A day on Venus is longer than its year.",
		Metadata: Metadata{Source: "data/facts.pdf", Page: 3, TotalPages: 9},
		Vector:   []float32{0.1, 0.2, 0.3},
	},
}

func Test_QdrantStore_CreatesCollectionOnFirstUpsert(t *testing.T) {
	client := new(mockQdrant)
	store := QdrantStore{client: client, collection: "example_collection"}

	client.On("CreateCollection", mock.Anything, mock.MatchedBy(func(req *qdrant.CreateCollection) bool {
		params := req.GetVectorsConfig().GetParams()
		return req.GetCollectionName() == "example_collection" &&
			params.GetSize() == 3 &&
			params.GetDistance() == qdrant.Distance_Cosine
	})).Return(nil).Once()
	client.On("Upsert", mock.Anything, mock.Anything).
		Return(&qdrant.UpdateResult{Status: qdrant.UpdateStatus_Completed}, nil).Twice()

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, qdrantRecords))
	require.NoError(t, store.Upsert(ctx, qdrantRecords))
	client.AssertExpectations(t)
}

func Test_QdrantStore_UpsertPayload(t *testing.T) {
	client := new(mockQdrant)
	store := QdrantStore{client: client, collection: "c", exists: true}

	client.On("Upsert", mock.Anything, mock.MatchedBy(func(req *qdrant.UpsertPoints) bool {
		if req.GetCollectionName() != "c" || len(req.GetPoints()) != 1 {
			return false
		}

		p := req.GetPoints()[0]
		payload := p.GetPayload()
		return p.GetId().GetUuid() == qdrantRecords[0].ID &&
			payload[TextKey].GetStringValue() == qdrantRecords[0].Text &&
			payload[SourceKey].GetStringValue() == "data/facts.pdf" &&
			payload[PageKey].GetIntegerValue() == 3 &&
			payload[TotalPagesKey].GetIntegerValue() == 9
	})).Return(&qdrant.UpdateResult{Status: qdrant.UpdateStatus_Acknowledged}, nil)

	require.NoError(t, store.Upsert(context.Background(), qdrantRecords))
	client.AssertExpectations(t)
}

func Test_QdrantStore_UpsertBadStatus(t *testing.T) {
	client := new(mockQdrant)
	store := QdrantStore{client: client, collection: "c", exists: true}

	client.On("Upsert", mock.Anything, mock.Anything).
		Return(&qdrant.UpdateResult{Status: qdrant.UpdateStatus_UnknownUpdateStatus}, nil)

	assert.Error(t, store.Upsert(context.Background(), qdrantRecords))
}

func Test_QdrantStore_Count(t *testing.T) {
	client := new(mockQdrant)

	store := QdrantStore{client: client, collection: "c"}
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	store.exists = true
	client.On("Count", mock.Anything, mock.Anything).Return(uint64(12), nil)
	n, err = store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	client.AssertExpectations(t)
}
