package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string

	// LLM provider settings. OpenAI is used when an API key is present,
	// otherwise the service falls back to a local Ollama instance.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OllamaBaseURL string
	OllamaModel   string

	// Data directories
	ReportsDir     string
	TranscriptsDir string

	// Market data
	MarketSymbol string

	// Transcript vector index backend: "chromem" (in-process) or "qdrant"
	VectorStore  string
	QdrantURL    string
	QdrantAPIKey string

	// Postgres (forecast log persistence)
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "gemma2:9b"),

		ReportsDir:     getEnv("REPORTS_DIR", "data/reports"),
		TranscriptsDir: getEnv("TRANSCRIPTS_DIR", "data/transcripts"),

		MarketSymbol: getEnv("MARKET_SYMBOL", "TCS.NS"),

		VectorStore:  getEnv("VECTOR_STORE", "chromem"),
		QdrantURL:    getEnv("QDRANT_URL", "localhost:6334"),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "tcs_forecast"),
	}
}

// UseOpenAI reports whether the OpenAI provider should be used.
func (c *Config) UseOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
