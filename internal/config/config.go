package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/slotstore"
	"github.com/spf13/viper"
)

// FileEnv names the environment variable holding an optional config file.
const FileEnv = "MEDIAI_CONFIG"

type Config struct {
	Port string

	// Model provider
	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	Temperature     float64
	LLMTimeout      time.Duration

	// Auth for the doctor endpoints
	DoctorAPIKey string

	// History persistence
	HistoryBackend  string
	HistorySlot     string
	HistoryFile     string
	HistoryLimit    int
	PathstoreURL    string
	PathstoreAPIKey string
	DatabaseURL     string

	// Upload limits
	MaxUploadBytes    int64
	MaxSymptomImages  int
	ReportTokenBudget int

	StatsWindow time.Duration
	TTSCommand  string
}

var defaults = map[string]any{
	"port":                "8090",
	"llm_provider":        string(analysis.ProviderGemini),
	"gemini_model":        analysis.DefaultGeminiModel,
	"anthropic_model":     analysis.DefaultClaudeModel,
	"openai_model":        analysis.DefaultOpenAIModel,
	"llm_temperature":     0.4,
	"llm_timeout":         3 * time.Minute,
	"history_backend":     slotstore.BackendMemory,
	"history_slot":        history.DefaultSlot,
	"history_file":        "mediai-history.json",
	"history_limit":       200,
	"max_upload_bytes":    int64(20 << 20), // 20MB
	"max_symptom_images":  3,
	"report_token_budget": 6000,
	"stats_window":        time.Hour,
	"tts_command":         "espeak-ng",
	"gemini_api_key":      "",
	"anthropic_api_key":   "",
	"openai_api_key":      "",
	"openai_base_url":     "",
	"doctor_api_key":      "",
	"pathstore_url":       "",
	"pathstore_api_key":   "",
	"database_url":        "",
}

// Load reads defaults, then the config file (path, or $MEDIAI_CONFIG when
// path is empty), then environment variables. File keys are the lower-case
// environment names, e.g. history_backend.
func Load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			v.SetConfigType(ext)
		}
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Port: v.GetString("port"),

		LLMProvider:     v.GetString("llm_provider"),
		GeminiAPIKey:    v.GetString("gemini_api_key"),
		GeminiModel:     v.GetString("gemini_model"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		AnthropicModel:  v.GetString("anthropic_model"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		OpenAIModel:     v.GetString("openai_model"),
		OpenAIBaseURL:   v.GetString("openai_base_url"),
		Temperature:     v.GetFloat64("llm_temperature"),
		LLMTimeout:      v.GetDuration("llm_timeout"),

		DoctorAPIKey: v.GetString("doctor_api_key"),

		HistoryBackend:  v.GetString("history_backend"),
		HistorySlot:     v.GetString("history_slot"),
		HistoryFile:     v.GetString("history_file"),
		HistoryLimit:    v.GetInt("history_limit"),
		PathstoreURL:    v.GetString("pathstore_url"),
		PathstoreAPIKey: v.GetString("pathstore_api_key"),
		DatabaseURL:     v.GetString("database_url"),

		MaxUploadBytes:    v.GetInt64("max_upload_bytes"),
		MaxSymptomImages:  v.GetInt("max_symptom_images"),
		ReportTokenBudget: v.GetInt("report_token_budget"),

		StatsWindow: v.GetDuration("stats_window"),
		TTSCommand:  v.GetString("tts_command"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.MaxSymptomImages <= 0 {
		cfg.MaxSymptomImages = 3
	}
	if cfg.ReportTokenBudget <= 0 {
		cfg.ReportTokenBudget = 6000
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}
	if cfg.HistoryLimit < 0 {
		cfg.HistoryLimit = 0
	}
	if cfg.HistorySlot == "" {
		cfg.HistorySlot = history.DefaultSlot
	}

	return cfg, nil
}

// Validate checks provider credentials and backend settings.
func (c Config) Validate() error {
	provider, err := analysis.ParseProvider(c.LLMProvider)
	if err != nil {
		return err
	}
	switch provider {
	case analysis.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case analysis.ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	case analysis.ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	}

	switch strings.ToLower(c.HistoryBackend) {
	case "", slotstore.BackendMemory:
	case slotstore.BackendFile:
		if c.HistoryFile == "" {
			return fmt.Errorf("HISTORY_FILE is required for the file backend")
		}
	case slotstore.BackendPathstore:
		if c.PathstoreURL == "" {
			return fmt.Errorf("PATHSTORE_URL is required for the pathstore backend")
		}
	case slotstore.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs.
func (c Config) ValidateServer() error {
	return errors.Join(c.Validate(), c.requireDoctorKey())
}

func (c Config) requireDoctorKey() error {
	if c.DoctorAPIKey == "" {
		return fmt.Errorf("DOCTOR_API_KEY is required")
	}
	return nil
}

// Provider returns the configured provider and its client options.
func (c Config) Provider() (analysis.Provider, analysis.Options, error) {
	provider, err := analysis.ParseProvider(c.LLMProvider)
	if err != nil {
		return "", analysis.Options{}, err
	}
	opts := analysis.Options{
		Temperature:       c.Temperature,
		Timeout:           c.LLMTimeout,
		ReportTokenBudget: c.ReportTokenBudget,
	}
	switch provider {
	case analysis.ProviderGemini:
		opts.APIKey, opts.Model = c.GeminiAPIKey, c.GeminiModel
	case analysis.ProviderClaude:
		opts.APIKey, opts.Model = c.AnthropicAPIKey, c.AnthropicModel
	case analysis.ProviderOpenAI:
		opts.APIKey, opts.Model, opts.BaseURL = c.OpenAIAPIKey, c.OpenAIModel, c.OpenAIBaseURL
	}
	return provider, opts, nil
}

// Slots returns the history backend options.
func (c Config) Slots() slotstore.Options {
	return slotstore.Options{
		Backend:      c.HistoryBackend,
		File:         c.HistoryFile,
		PathstoreURL: c.PathstoreURL,
		PathstoreKey: c.PathstoreAPIKey,
		DatabaseURL:  c.DatabaseURL,
	}
}
