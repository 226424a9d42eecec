package tracekb

import (
	"os"
	"path/filepath"
)

// Config holds all configuration for the tracekb engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.tracekb/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "tracekb". The file will be <DBName>.db inside the
	// storage directory (~/.tracekb/ or working dir).
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.tracekb/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// Persist enables saving built knowledge bases to SQLite.
	Persist bool `json:"persist" yaml:"persist"`

	// LLM providers
	Chat      LLMConfig `json:"chat" yaml:"chat"`
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`

	// Relationship inference
	RelationshipTemperature float64 `json:"relationship_temperature" yaml:"relationship_temperature"`
	RelationshipMaxTokens   int     `json:"relationship_max_tokens" yaml:"relationship_max_tokens"`
	RelationshipConcurrency int     `json:"relationship_concurrency" yaml:"relationship_concurrency"` // Max parallel LLM calls during inference (default 8)

	// Test case generation limits
	MaxTotalTestCases       int `json:"max_total_test_cases" yaml:"max_total_test_cases"`
	MaxTestCasesPerFunction int `json:"max_test_cases_per_function" yaml:"max_test_cases_per_function"`
	MaxTestCasesPerClass    int `json:"max_test_cases_per_class" yaml:"max_test_cases_per_class"`

	// Embedding dimensions (must match model)
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // ollama, lmstudio, openrouter, openai, groq, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config with sensible defaults for local inference.
// Database is stored in ~/.tracekb/tracekb.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:     "tracekb",
		StorageDir: "home",
		Chat: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		RelationshipTemperature: 0.0,
		RelationshipMaxTokens:   10,
		RelationshipConcurrency: 8,
		MaxTotalTestCases:       50,
		MaxTestCasesPerFunction: 3,
		MaxTestCasesPerClass:    5,
		EmbeddingDim:            768,
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "tracekb"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		dir := filepath.Join(home, ".tracekb")
		return filepath.Join(dir, name+".db")
	}
}
