package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LLMConfig selects the model backend and how to reach it.
type LLMConfig struct {
	Provider      string `yaml:"provider" validate:"oneof=gemini openai"`
	APIKeyEnv     string `yaml:"api_key_env" validate:"required"`
	BaseURL       string `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model         string `yaml:"model,omitempty"`
	FallbackModel string `yaml:"fallback_model,omitempty"`
	TimeoutSecs   int    `yaml:"timeout_secs" validate:"gte=1"`
}

// Timeout returns the request timeout as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size" validate:"gte=1"`
}

// RetrievalConfig configures chunk selection.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" validate:"gte=1"`
}

// SamplingConfig bounds one kind of generation call.
type SamplingConfig struct {
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=1"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
}

// GenerationConfig holds sampling parameters per generation path.
type GenerationConfig struct {
	Document             SamplingConfig `yaml:"document"`
	General              SamplingConfig `yaml:"general"`
	Summary              SamplingConfig `yaml:"summary"`
	SummaryMaxInputChars int            `yaml:"summary_max_input_chars" validate:"gte=1"`
}

// SessionConfig configures how long loaded documents are kept.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" validate:"gte=1"`
}

// TTL returns the session lifetime as a duration.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ServerConfig configures the HTTP front-end.
type ServerConfig struct {
	Addr        string `yaml:"addr" validate:"required"`
	MaxUploadMB int    `yaml:"max_upload_mb" validate:"gte=1"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	FilePath   string `yaml:"file_path" validate:"required"`
	Production bool   `yaml:"production"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LLM        LLMConfig        `yaml:"llm"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Generation GenerationConfig `yaml:"generation"`
	Session    SessionConfig    `yaml:"session"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

var validate = validator.New()

// Validate checks field constraints after defaults have been applied.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads the explicit path when given, otherwise falls back to LoadDefault.
func Resolve(explicit string) (*AppConfig, string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, "", fmt.Errorf("config %s: %w", explicit, err)
		}
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	return LoadDefault()
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.APIKeyEnv == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
		default:
			cfg.LLM.APIKeyEnv = "GEMINI_API_KEY"
		}
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 600
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	sampling(&cfg.Generation.Document, 1700, 0.3)
	sampling(&cfg.Generation.General, 400, 0.4)
	sampling(&cfg.Generation.Summary, 500, 0.3)
	if cfg.Generation.SummaryMaxInputChars == 0 {
		cfg.Generation.SummaryMaxInputChars = 12000
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 60
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 20
	}
	if cfg.Log.FilePath == "" {
		cfg.Log.FilePath = filepath.Join(os.TempDir(), "docqa", "docqa.log")
	}
}

// sampling fills a section left out of the file. An explicit temperature of 0
// is kept when max_tokens is set.
func sampling(s *SamplingConfig, maxTokens int, temperature float64) {
	if s.MaxTokens == 0 {
		s.MaxTokens = maxTokens
		if s.Temperature == 0 {
			s.Temperature = temperature
		}
	}
}
