// Package embedders adapts hosted embedding models to the docstore.Embedder interface.
package embedders

import (
	"context"
	"fmt"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	gemini "github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	openai "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
)

const (
	DefaultGeminiModel = "text-embedding-004"
	DefaultOpenAIModel = "text-embedding-3-small"
)

// documentEmbedder is the part of embeddings.EmbeddingFunction used for ingestion.
type documentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([]embeddings.Embedding, error)
}

// EmbeddingFunc wraps a chroma-go embedding function.
type EmbeddingFunc struct {
	ef documentEmbedder
}

func NewEmbeddingFunc(ef embeddings.EmbeddingFunction) *EmbeddingFunc {
	return &EmbeddingFunc{ef: ef}
}

func NewGemini(apiKey, model string) (embeddings.EmbeddingFunction, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	ef, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithAPIKey(apiKey),
		gemini.WithDefaultModel(embeddings.EmbeddingModel(model)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
	}

	return ef, nil
}

func NewOpenAI(apiKey, model string) (embeddings.EmbeddingFunction, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}

	ef, err := openai.NewOpenAIEmbeddingFunction(
		apiKey,
		openai.WithModel(openai.EmbeddingModel(model)))
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI embedding function: %w", err)
	}

	return ef, nil
}

func (e *EmbeddingFunc) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	embs, err := e.ef.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d documents: %w", len(texts), err)
	}

	res := make([][]float32, len(embs))
	for i, emb := range embs {
		if emb == nil {
			continue
		}

		res[i] = emb.ContentAsFloat32()
	}

	return res, nil
}
