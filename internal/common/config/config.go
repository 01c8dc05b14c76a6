package config

import (
	"fmt"
	"os"
	"strconv"

	"figure-renderer/internal/figures/render"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string

	DBPath       string
	RenderConfig string

	AnthropicAPIKey  string
	InterpreterModel string
}

// Load reads the service configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		DBPath:       getEnv("FIGURES_DB_PATH", "data/db/figures.db"),
		RenderConfig: getEnv("RENDER_CONFIG", ""),

		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		InterpreterModel: getEnv("INTERPRETER_MODEL", ""),
	}
}

// LoadRenderFile reads a YAML render config. Fields left out keep their
// defaults; an empty path returns the defaults.
func LoadRenderFile(path string) (render.Config, error) {
	cfg := render.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read render config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse render config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
