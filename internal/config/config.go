// Package config provides configuration management for the translation engine.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"tm-engine/internal/logger"
	"tm-engine/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "tm-engine-config.json"
	// EnvOpenAIAPIKey is the environment variable name for OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default model to use for segment translation
	DefaultModel = "gpt-4o"
	// DefaultMemoryFileName is the default translation memory file name
	DefaultMemoryFileName = "translation-memory.json"

	// DefaultSimilarityThreshold is the minimum total score for candidate reuse.
	// The threshold values are empirical constants carried over from the
	// original workflow; they are configurable rather than fixed law.
	DefaultSimilarityThreshold = 0.7
	// DefaultReuseThreshold is the minimum score for verbatim reuse of a
	// stored translation.
	DefaultReuseThreshold = 0.8
	// DefaultContextBonus is the score bonus for a matching context.
	DefaultContextBonus = 0.1
)

// ConfigManager manages engine configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in the user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "tm-engine", DefaultConfigFileName)
	}

	logger.Info("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		OpenAIAPIKey:        "",
		OpenAIBaseURL:       DefaultBaseURL,
		OpenAIModel:         DefaultModel,
		SimilarityThreshold: DefaultSimilarityThreshold,
		ReuseThreshold:      DefaultReuseThreshold,
		ContextBonus:        DefaultContextBonus,
		MemoryPath:          DefaultMemoryFileName,
		WorkDirectory:       "",
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, defaults are used. Environment variables take
// precedence for the API key and base URL when the file values are empty.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded",
				logger.String("path", m.configPath),
				logger.String("model", config.OpenAIModel),
				logger.Float64("similarityThreshold", config.SimilarityThreshold))
			m.config = config
		}
	}

	m.applyDefaults()
	m.applyEnvironment()
	return nil
}

// applyDefaults fills empty or zero fields with default values
func (m *ConfigManager) applyDefaults() {
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.SimilarityThreshold <= 0 || m.config.SimilarityThreshold > 1 {
		m.config.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if m.config.ReuseThreshold <= 0 || m.config.ReuseThreshold > 1 {
		m.config.ReuseThreshold = DefaultReuseThreshold
	}
	if m.config.ContextBonus < 0 || m.config.ContextBonus > 1 {
		m.config.ContextBonus = DefaultContextBonus
	}
	if m.config.MemoryPath == "" {
		m.config.MemoryPath = DefaultMemoryFileName
	}
}

// applyEnvironment overrides API settings from environment variables when the
// config file left them empty.
func (m *ConfigManager) applyEnvironment() {
	if m.config.OpenAIAPIKey == "" {
		if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
			m.config.OpenAIAPIKey = key
			logger.Debug("API key loaded from environment")
		}
	}
	if url := os.Getenv(EnvOpenAIBaseURL); url != "" && m.config.OpenAIBaseURL == DefaultBaseURL {
		m.config.OpenAIBaseURL = url
	}
}

// Save writes the current configuration to the config file
func (m *ConfigManager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// Get returns the current configuration
func (m *ConfigManager) Get() *types.Config {
	return m.config
}

// Update replaces the current configuration and persists it
func (m *ConfigManager) Update(config *types.Config) error {
	if config == nil {
		return types.NewAppError(types.ErrInvalidInput, "config must not be nil", nil)
	}
	m.config = config
	m.applyDefaults()
	return m.Save()
}
