package embedders

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const taskRetrievalDocument = "RETRIEVAL_DOCUMENT"

type genaiModels interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GenaiEmbedder calls the Gemini API through google.golang.org/genai.
type GenaiEmbedder struct {
	models genaiModels
	model  string
}

func NewGenai(ctx context.Context, apiKey, model string) (*GenaiEmbedder, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenaiEmbedder{models: client.Models, model: model}, nil
}

func (e *GenaiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := e.models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: taskRetrievalDocument,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d documents with %s: %w", len(texts), e.model, err)
	}

	res := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			continue
		}

		res[i] = emb.Values
	}

	return res, nil
}
