package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gamma-omg/pdf-ingest/docstore"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envConfigPath = "INGEST_CONFIG"
	envEnvFile    = "INGEST_ENV_FILE"

	defaultConfigPath = "config.yaml"
)

// defaultEnvFiles are tried in order when INGEST_ENV_FILE is unset.
var defaultEnvFiles = []string{".env", "wwe.env"}

const (
	ReaderPages   = "pages"
	ReaderDocconv = "docconv"

	BackendChromem = "chromem"
	BackendChroma  = "chroma"
	BackendQdrant  = "qdrant"
)

type ProviderConfig struct {
	Model  string `yaml:"model"`
	ApiKey string `yaml:"api_key"`
}

type StoreConfig struct {
	Backend    string `yaml:"backend"`
	Collection string `yaml:"collection"`
	Path       string `yaml:"path"`
	Compress   bool   `yaml:"compress"`
	ChromaAddr string `yaml:"chroma_addr"`
	Qdrant     struct {
		Host   string `yaml:"host"`
		Port   int    `yaml:"port"`
		ApiKey string `yaml:"api_key"`
		TLS    bool   `yaml:"tls"`
	} `yaml:"qdrant"`
}

type Config struct {
	LogFile      string          `yaml:"log"`
	LogLevel     string          `yaml:"log_level"`
	DocRoot      string          `yaml:"doc_root"`
	PdfReader    string          `yaml:"pdf_reader"`
	ChunkSize    int             `yaml:"chunk_size"`
	ChunkOverlap int             `yaml:"chunk_overlap"`
	RequestSize  int             `yaml:"request_size"`
	BatchSize    int             `yaml:"batch_size"`
	Store        StoreConfig     `yaml:"store"`
	OpenAI       *ProviderConfig `yaml:"open_ai"`
	Gemini       *ProviderConfig `yaml:"gemini"`
	Genai        *ProviderConfig `yaml:"genai"`
}

func defaultConfig() *Config {
	cfg := &Config{
		LogLevel:     "info",
		DocRoot:      "data",
		PdfReader:    ReaderPages,
		ChunkSize:    300,
		ChunkOverlap: 100,
		BatchSize:    docstore.DefaultMaxBatch,
		Store: StoreConfig{
			Backend:    BackendChromem,
			Collection: "example_collection",
			Path:       "chroma_db",
			ChromaAddr: "http://localhost:8000",
		},
	}
	cfg.Store.Qdrant.Host = "localhost"
	cfg.Store.Qdrant.Port = 6334

	return cfg
}

func envFiles() []string {
	if path := os.Getenv(envEnvFile); path != "" {
		return []string{path}
	}

	return defaultEnvFiles
}

// loadEnv reads credentials from the env files into the process environment.
// Missing files are skipped. Variables already set win over the files, and
// earlier files win over later ones.
func loadEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to load env file %s: %w", path, err)
		}
	}

	return nil
}

func readConfig(cfgPath string) (*Config, error) {
	cfg := defaultConfig()

	cfgFile, err := os.Open(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("unable to open config file: %w", err)
	default:
		defer cfgFile.Close()

		dec := yaml.NewDecoder(cfgFile)
		err = dec.Decode(cfg)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unable to parse config file: %w", err)
		}
	}

	if cfg.OpenAI == nil && cfg.Gemini == nil && cfg.Genai == nil {
		cfg.Gemini = &ProviderConfig{}
	}

	resolveKey(cfg.OpenAI, "OPENAI_API_KEY")
	resolveKey(cfg.Gemini, "GOOGLE_API_KEY", "GEMINI_API_KEY")
	resolveKey(cfg.Genai, "GOOGLE_API_KEY", "GEMINI_API_KEY")
	if cfg.Store.Qdrant.ApiKey == "" {
		cfg.Store.Qdrant.ApiKey = os.Getenv("QDRANT_API_KEY")
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	return cfg, nil
}

func resolveKey(p *ProviderConfig, envs ...string) {
	if p == nil || p.ApiKey != "" {
		return
	}

	for _, e := range envs {
		if v := os.Getenv(e); v != "" {
			p.ApiKey = v
			return
		}
	}
}

func (cfg *Config) validate() error {
	if cfg.DocRoot == "" {
		return errors.New("doc_root is empty")
	}

	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", cfg.ChunkSize)
	}

	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", cfg.ChunkOverlap)
	}

	if cfg.BatchSize <= 0 || cfg.BatchSize > docstore.DefaultMaxBatch {
		return fmt.Errorf("batch_size must be in [1, %d], got %d", docstore.DefaultMaxBatch, cfg.BatchSize)
	}

	switch cfg.PdfReader {
	case ReaderPages, ReaderDocconv:
	default:
		return fmt.Errorf("unknown pdf_reader %q", cfg.PdfReader)
	}

	switch cfg.Store.Backend {
	case BackendChromem:
		if cfg.Store.Path == "" {
			return errors.New("store.path is empty")
		}
	case BackendChroma, BackendQdrant:
	default:
		return fmt.Errorf("unknown store.backend %q", cfg.Store.Backend)
	}

	if cfg.Store.Collection == "" {
		return errors.New("store.collection is empty")
	}

	p := cfg.provider()
	if p.ApiKey == "" {
		return fmt.Errorf("missing API key for embedding provider %s", cfg.providerName())
	}

	return nil
}

// provider returns the embedding provider in use: open_ai, then gemini, then genai.
func (cfg *Config) provider() *ProviderConfig {
	switch {
	case cfg.OpenAI != nil:
		return cfg.OpenAI
	case cfg.Gemini != nil:
		return cfg.Gemini
	default:
		return cfg.Genai
	}
}

func (cfg *Config) providerName() string {
	switch {
	case cfg.OpenAI != nil:
		return "open_ai"
	case cfg.Gemini != nil:
		return "gemini"
	default:
		return "genai"
	}
}

func (cfg *Config) logLevel() slog.Level {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel)))
	if err != nil {
		return slog.LevelInfo
	}

	return lvl
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
