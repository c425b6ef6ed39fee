package config

import (
	"fmt"

	"github.com/docunet-ai/docunet/backend/internal/util"
)

// Neo4jConfig holds the connection settings for the graph database.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// ChunkingConfig holds the sizing knobs for the chunk-construction engine.
//
// TokenChunkSize and ChunkOverlap control the splitter windows.
// MaxTokenChunkSize governs the safety-valve ceiling on the total chunk
// count of a single document, not individual chunk size.
type ChunkingConfig struct {
	TokenChunkSize    int
	ChunkOverlap      int
	MaxTokenChunkSize int
}

// QueryConfig holds the retrieval-side limits.
type QueryConfig struct {
	GraphChunkLimit   int
	ChunkTextPageSize int
}

// S3Config holds the object storage settings for document sources.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// LoaderConfig holds settings for the external document sources.
type LoaderConfig struct {
	WikipediaLanguage  string
	TranscriptLanguage string
	YouTubeAPIKey      string
}

// Config is the process-wide configuration. It is built once at startup from
// the environment and treated as read-only afterwards; components receive it
// (or a sub-struct) explicitly instead of reading ambient state.
type Config struct {
	Neo4j    Neo4jConfig
	Chunking ChunkingConfig
	Query    QueryConfig
	S3       S3Config
	Loader   LoaderConfig

	RabbitMQURL string
	Port        string
	Debug       bool
}

// Load reads the configuration from the environment. Call util.LoadEnv first
// so a local .env file is honored.
func Load() (*Config, error) {
	cfg := &Config{
		Neo4j: Neo4jConfig{
			URI:      util.GetEnv("NEO4J_URI"),
			Username: util.GetEnv("NEO4J_USERNAME"),
			Password: util.GetEnv("NEO4J_PASSWORD"),
			Database: util.GetEnvString("NEO4J_DATABASE", "neo4j"),
		},
		Chunking: ChunkingConfig{
			TokenChunkSize:    util.GetEnvInt("TOKEN_CHUNK_SIZE", 200),
			ChunkOverlap:      util.GetEnvInt("CHUNK_OVERLAP", 20),
			MaxTokenChunkSize: util.GetEnvInt("MAX_TOKEN_CHUNK_SIZE", 100000),
		},
		Query: QueryConfig{
			GraphChunkLimit:   util.GetEnvInt("GRAPH_CHUNK_LIMIT", 50),
			ChunkTextPageSize: util.GetEnvInt("CHUNK_TEXT_PAGE_SIZE", 5),
		},
		S3: S3Config{
			Region:    util.GetEnv("AWS_REGION"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			Bucket:    util.GetEnv("AWS_BUCKET"),
		},
		Loader: LoaderConfig{
			WikipediaLanguage:  util.GetEnvString("WIKIPEDIA_LANGUAGE", "en"),
			TranscriptLanguage: util.GetEnvString("TRANSCRIPT_LANGUAGE", "en"),
			YouTubeAPIKey:      util.GetEnv("YOUTUBE_API_KEY"),
		},
		RabbitMQURL: fmt.Sprintf(
			"amqp://%s:%s@%s:%s/",
			util.GetEnv("RABBITMQ_USER"),
			util.GetEnv("RABBITMQ_PASSWORD"),
			util.GetEnv("RABBITMQ_HOST"),
			util.GetEnvString("RABBITMQ_PORT", "5672"),
		),
		Port:  util.GetEnvString("PORT", "8080"),
		Debug: util.GetEnvBool("DEBUG", false),
	}

	if cfg.Neo4j.URI == "" {
		return nil, fmt.Errorf("NEO4J_URI is not set")
	}
	if cfg.Chunking.TokenChunkSize <= 0 {
		return nil, fmt.Errorf("TOKEN_CHUNK_SIZE must be positive, got %d", cfg.Chunking.TokenChunkSize)
	}
	if cfg.Chunking.ChunkOverlap < 0 {
		return nil, fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Chunking.ChunkOverlap >= cfg.Chunking.TokenChunkSize {
		return nil, fmt.Errorf(
			"CHUNK_OVERLAP (%d) must be smaller than TOKEN_CHUNK_SIZE (%d)",
			cfg.Chunking.ChunkOverlap, cfg.Chunking.TokenChunkSize,
		)
	}
	if cfg.Chunking.MaxTokenChunkSize <= 0 {
		return nil, fmt.Errorf("MAX_TOKEN_CHUNK_SIZE must be positive, got %d", cfg.Chunking.MaxTokenChunkSize)
	}

	return cfg, nil
}
