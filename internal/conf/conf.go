package conf

import (
	"os"
	"strconv"
)

const (
	defaultAPIURL        = "http://localhost:11434/api/generate"
	defaultModel         = "llama2"
	defaultCommandPrefix = "?"
	defaultMaxTurns      = 50
)

// Config represents application configuration
type Config struct {
	// Discord configuration
	Discord DiscordConfig

	// Ollama configuration
	Ollama OllamaConfig

	// Audit configuration
	Audit AuditConfig

	// History configuration
	History HistoryConfig

	// Persona configuration (loaded from YAML)
	Persona *PersonaConfig

	// Debug mode
	Debug bool
}

// DiscordConfig contains Discord configuration
type DiscordConfig struct {
	Token         string
	CommandPrefix string
}

// OllamaConfig contains Ollama configuration
type OllamaConfig struct {
	APIURL string
	Model  string
}

// AuditConfig contains audit logging configuration.
// An empty LogsChannelID disables audit logging entirely.
type AuditConfig struct {
	LogsChannelID string
}

// HistoryConfig contains conversation history configuration
type HistoryConfig struct {
	MaxTurns int // Max turns kept per channel; <= 0 means unbounded
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	apiURL := os.Getenv("OLLAMA_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultModel
	}

	prefix := os.Getenv("COMMAND_PREFIX")
	if prefix == "" {
		prefix = defaultCommandPrefix
	}

	maxTurns := defaultMaxTurns
	if val := os.Getenv("MAX_HISTORY_TURNS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			maxTurns = parsed
		}
	}

	// Load persona from YAML (falls back to built-in defaults)
	persona, _ := LoadPersonaConfig(os.Getenv("PERSONA_CONFIG_PATH"))

	return &Config{
		Discord: DiscordConfig{
			Token:         os.Getenv("DISCORD_TOKEN"),
			CommandPrefix: prefix,
		},
		Ollama: OllamaConfig{
			APIURL: apiURL,
			Model:  model,
		},
		Audit: AuditConfig{
			LogsChannelID: os.Getenv("LOGS_CHANNEL_ID"),
		},
		History: HistoryConfig{
			MaxTurns: maxTurns,
		},
		Persona: persona,
		Debug:   os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return &ConfigError{Field: "DISCORD_TOKEN", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
