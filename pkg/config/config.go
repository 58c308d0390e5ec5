package config

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// defaultInstructions is the receptionist persona supplied to the reasoning
// engine when the config file does not override it.
const defaultInstructions = `You are a professional receptionist for TechCorp Solutions, a technology consulting company.

You can help with:
- Booking appointments and checking availability
- Sending emails on behalf of clients
- Providing information about company services using the knowledge base
- General receptionist duties

Always be professional, friendly, and helpful. When booking appointments, confirm all details clearly.
When clients ask about services or company information, use the search_knowledge function to provide accurate information.
For any complex technical questions, suggest they speak with one of our consultants.

Company contact: (555) 123-4567 | info@techcorpsolutions.com`

// Config defines the global application configuration structure.
// It maps directly to the config.json file.
type Config struct {
	// Server holds the HTTP front door settings.
	Server ServerConfig `json:"server"`
	// Engine holds the remote reasoning engine settings.
	Engine EngineConfig `json:"engine"`
	// Mail holds the outbound email transport settings.
	Mail MailConfig `json:"mail"`
	// Knowledge holds the retrieval subsystem settings.
	Knowledge KnowledgeConfig `json:"knowledge"`
	// Storage holds the appointment/availability store settings.
	Storage StorageConfig `json:"storage"`
	// LogLevel sets the minimum severity for log output.
	// Accepted values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `json:"log_level"`
}

// ServerConfig controls the HTTP listener and CORS policy.
type ServerConfig struct {
	Port int `json:"port"`
	// AllowedOrigins is the CORS allow-list for the browser frontend.
	AllowedOrigins []string `json:"allowed_origins"`
}

// EngineConfig controls the reasoning engine client and the driver's
// polling discipline.
type EngineConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	// AssistantName labels the assistant created on the remote engine.
	AssistantName string `json:"assistant_name"`
	// Instructions is the system persona given to the engine per run.
	Instructions string `json:"instructions"`
	// PollIntervalMs is the wait between run status checks.
	PollIntervalMs int `json:"poll_interval_ms"`
	// MaxPollIterations bounds the status checks per turn. Exceeding it
	// yields a turn timeout fault rather than an engine failure.
	MaxPollIterations int `json:"max_poll_iterations"`
}

// MailConfig controls the Resend email transport.
type MailConfig struct {
	APIKey  string `json:"api_key"`
	From    string `json:"from"`
	BaseURL string `json:"base_url,omitempty"`
}

// KnowledgeConfig controls document ingestion and embedding retrieval.
type KnowledgeConfig struct {
	// DataDir is scanned for *.md and *.txt documents at ingest time.
	DataDir string `json:"data_dir"`
	// OllamaURL is the embedding backend endpoint.
	OllamaURL string `json:"ollama_url"`
	// EmbedModel is the embedding model name.
	EmbedModel string `json:"embed_model"`
	// TopK is the number of passages retrieved per question.
	TopK int `json:"top_k"`
	// Enabled toggles the retrieval subsystem. When false the knowledge
	// tool degrades to its contact fallback.
	Enabled bool `json:"enabled"`
}

// StorageConfig controls the sqlite database backing appointments,
// availability and knowledge chunks.
type StorageConfig struct {
	DatabasePath string `json:"database_path"`
	Debug        bool   `json:"debug"`
}

// Validate ensures the configuration contains all mandatory fields.
// It acts as a primary guard before the system proceeds to initialization.
func (c *Config) Validate() error {
	if c.Engine.APIKey == "" {
		return fmt.Errorf("mandatory 'engine.api_key' configuration is missing")
	}
	if c.Engine.Model == "" {
		return fmt.Errorf("mandatory 'engine.model' configuration is missing")
	}
	return nil
}

// Default returns a Config initialized with safe default values. It is the
// base that config.json overrides, ensuring the service can always start
// with a partial file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8000,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:3001",
				"http://127.0.0.1:3001",
			},
		},
		Engine: EngineConfig{
			Model:             "gpt-4-1106-preview",
			AssistantName:     "TechCorp Receptionist",
			Instructions:      defaultInstructions,
			PollIntervalMs:    1000,
			MaxPollIterations: 10,
		},
		Mail: MailConfig{
			From: "receptionist@techcorpsolutions.com",
		},
		Knowledge: KnowledgeConfig{
			DataDir:    "./data",
			OllamaURL:  "http://localhost:11434",
			EmbedModel: "nomic-embed-text",
			TopK:       3,
			Enabled:    true,
		},
		Storage: StorageConfig{
			DatabasePath: "frontdesk.db",
		},
		LogLevel: "info",
	}
}

// Load reads and parses the JSON configuration file at path, overlaying it
// on the defaults. A missing file is an error; a parse failure is an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found. please create one", path)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
