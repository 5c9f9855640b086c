package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Prompts holds the fmt templates sent to the model. Classification and
// Refinement take the topic; Message takes the document text and the
// rendered instruction, in that order.
type Prompts struct {
	System         string `toml:"system"`
	Message        string `toml:"message"`
	Classification string `toml:"classification"`
	Refinement     string `toml:"refinement"`
}

type LLMConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Temperature       float32 `toml:"temperature"`
	TopP              float32 `toml:"top_p"`
	MaxTokens         int     `toml:"max_tokens"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxRetries        int     `toml:"max_retries"`
}

type CorpusConfig struct {
	Dir        string   `toml:"dir"`
	Extensions []string `toml:"extensions"`
}

type TriageConfig struct {
	Topic    string `toml:"topic"`
	FailFast bool   `toml:"fail_fast"`
}

type ConcurrencyConfig struct {
	Classify int `toml:"classify"`
	Refine   int `toml:"refine"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Production bool   `toml:"production"`
	File       string `toml:"file"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Corpus      CorpusConfig      `toml:"corpus"`
	Triage      TriageConfig      `toml:"triage"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Prompts     Prompts           `toml:"prompts"`
	Log         LogConfig         `toml:"log"`
	Server      ServerConfig      `toml:"server"`
}

const (
	DefaultSystemPrompt = "You are a helpful assistant."

	DefaultMessagePrompt = "Text: %s\n\nThis is my prompt: %s"

	DefaultClassificationPrompt = "Question: Is the topic '%s' discussed in this text at all? If so, rate the level of relevance. " +
		"Answer with 'yes (definitely)' or 'yes (moderately)' or 'yes (barely)' or 'no'."

	DefaultRefinementPrompt = "Question: Identify the sentences or areas where the topic '%s' is discussed, " +
		"even if mentioned indirectly. Provide the relevant sentences or sections, " +
		"but limit the response to unique sentences or sections."

	SambaNovaBaseURL = "https://api.sambanova.ai/v1"
)

// Default returns a configuration for SambaNova's Llama 3.1 70B at
// temperature and top-p 0.1.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "sambanova",
			Model:       "Meta-Llama-3.1-70B-Instruct",
			Temperature: 0.1,
			TopP:        0.1,
			MaxTokens:   1024,
			MaxRetries:  3,
		},
		Corpus: CorpusConfig{
			Dir:        "./test_docs",
			Extensions: []string{".txt"},
		},
		Concurrency: ConcurrencyConfig{
			Classify: 4,
			Refine:   4,
		},
		Prompts: Prompts{
			System:         DefaultSystemPrompt,
			Message:        DefaultMessagePrompt,
			Classification: DefaultClassificationPrompt,
			Refinement:     DefaultRefinementPrompt,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads a TOML file on top of Default, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default when it
// does not. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SAMBANOVA_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	// LLM_API_KEY wins over the provider specific name
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_REQUESTS_PER_SECOND"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.LLM.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv("CORPUS_DIR"); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}

var providers = map[string]bool{
	"openai":    true,
	"sambanova": true,
	"ollama":    true,
	"claude":    true,
	"gemini":    true,
}

func (c *Config) Validate() error {
	provider := strings.ToLower(c.LLM.Provider)
	if !providers[provider] {
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	if c.LLM.RequestsPerSecond < 0 {
		return fmt.Errorf("llm.requests_per_second must not be negative")
	}
	if c.Concurrency.Classify < 1 {
		return fmt.Errorf("concurrency.classify must be at least 1")
	}
	if c.Concurrency.Refine < 1 {
		return fmt.Errorf("concurrency.refine must be at least 1")
	}
	if len(c.Corpus.Extensions) == 0 {
		return fmt.Errorf("corpus.extensions must list at least one extension")
	}

	templates := map[string]struct {
		value string
		verbs int
	}{
		"prompts.message":        {c.Prompts.Message, 2},
		"prompts.classification": {c.Prompts.Classification, 1},
		"prompts.refinement":     {c.Prompts.Refinement, 1},
	}
	for name, tmpl := range templates {
		if got := strings.Count(tmpl.value, "%s"); got != tmpl.verbs {
			return fmt.Errorf("%s must contain %d %%s verb(s), found %d", name, tmpl.verbs, got)
		}
	}

	return nil
}
