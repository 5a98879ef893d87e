package app

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is layered: compiled-in defaults, then the YAML file, then
// environment variables (highest precedence). A .env file in the working
// directory is folded into the environment before parsing.
type Config struct {
	BaseURL      string `yaml:"base_url" env:"DOCCHAT_BASE_URL"`
	Persona      string `yaml:"persona" env:"DOCCHAT_PERSONA"`
	Theme        string `yaml:"theme" env:"DOCCHAT_THEME"`
	LogFile      string `yaml:"log_file" env:"DOCCHAT_LOG_FILE"`
	ReduceMotion bool   `yaml:"reduce_motion" env:"DOCCHAT_REDUCE_MOTION"`
	NoColor      bool   `yaml:"no_color" env:"DOCCHAT_NO_COLOR"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000/api",
		Persona: "friendly",
		Theme:   "aurora",
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	// Missing .env is the normal case.
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env parsing
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Persona == "" {
		cfg.Persona = "friendly"
	}
	if cfg.Theme == "" {
		cfg.Theme = "aurora"
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "docchat", "config.yml")
}
