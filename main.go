package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/gamma-omg/pdf-ingest/docstore"
	"github.com/gamma-omg/pdf-ingest/embedders"
	"github.com/gamma-omg/pdf-ingest/readers"
)

// createEmbedder returns the embedder for the configured provider and, for
// chroma-go providers, the underlying embedding function.
func createEmbedder(ctx context.Context, cfg *Config) (docstore.Embedder, embeddings.EmbeddingFunction, error) {
	if cfg.OpenAI != nil {
		ef, err := embedders.NewOpenAI(cfg.OpenAI.ApiKey, cfg.OpenAI.Model)
		if err != nil {
			return nil, nil, err
		}

		return embedders.NewEmbeddingFunc(ef), ef, nil
	}

	if cfg.Gemini != nil {
		ef, err := embedders.NewGemini(cfg.Gemini.ApiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, err
		}

		return embedders.NewEmbeddingFunc(ef), ef, nil
	}

	e, err := embedders.NewGenai(ctx, cfg.Genai.ApiKey, cfg.Genai.Model)
	if err != nil {
		return nil, nil, err
	}

	return e, nil, nil
}

func initDocStore(ctx context.Context, cfg *Config, ef embeddings.EmbeddingFunction) (docstore.VectorStore, error) {
	switch cfg.Store.Backend {
	case BackendChroma:
		store, err := docstore.NewChromaStore(ctx, docstore.ChromaStoreConfig{
			BaseURL:       cfg.Store.ChromaAddr,
			Collection:    cfg.Store.Collection,
			EmbeddingFunc: ef,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Chroma doc store: %w", err)
		}

		return store, nil

	case BackendQdrant:
		store, err := docstore.NewQdrantStore(ctx, docstore.QdrantStoreConfig{
			Host:       cfg.Store.Qdrant.Host,
			Port:       cfg.Store.Qdrant.Port,
			APIKey:     cfg.Store.Qdrant.ApiKey,
			UseTLS:     cfg.Store.Qdrant.TLS,
			Collection: cfg.Store.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Qdrant doc store: %w", err)
		}

		return store, nil

	default:
		store, err := docstore.NewChromemStore(docstore.ChromemStoreConfig{
			Path:       cfg.Store.Path,
			Collection: cfg.Store.Collection,
			Compress:   cfg.Store.Compress,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local doc store: %w", err)
		}

		return store, nil
	}
}

func createReader(cfg *Config) fileReader {
	if cfg.PdfReader == ReaderDocconv {
		return &readers.DocconvFileReader{}
	}

	return &readers.PdfFileReader{}
}

func openLog(cfg *Config) (io.WriteCloser, error) {
	if cfg.LogFile == "" {
		return nopCloser{os.Stderr}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

var (
	newEmbedder = createEmbedder
	newDocStore = initDocStore
)

func run(stdout io.Writer) error {
	err := loadEnv(envFiles()...)
	if err != nil {
		return err
	}

	cfg, err := readConfig(getenv(envConfigPath, defaultConfigPath))
	if err != nil {
		return err
	}

	logOut, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logOut.Close()

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.logLevel()}))

	ctx := context.Background()

	embedder, ef, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := newDocStore(ctx, cfg, ef)
	if err != nil {
		return err
	}
	defer store.Close()

	ingestor := Ingestor{
		log: logger,
		loader: &DocRegistry{
			log:     logger,
			root:    cfg.DocRoot,
			readers: []fileReader{createReader(cfg)},
		},
		chunkifier: NewRecursiveChunkifier(cfg.ChunkSize, cfg.ChunkOverlap),
		ids:        UUIDGenerator{},
		writer: &docstore.Writer{
			Log:         logger,
			Embedder:    embedder,
			Store:       store,
			RequestSize: cfg.RequestSize,
			MaxBatch:    cfg.BatchSize,
		},
	}

	n, err := ingestor.Run(ctx)
	if err != nil {
		logger.Error("ingestion failed", slog.String("error", err.Error()))
		return err
	}

	fmt.Fprintf(stdout, "Embedded %d chunks from PDFs in %s\n", n, cfg.DocRoot)
	return nil
}

func main() {
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}
