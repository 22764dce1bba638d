package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`
	ModelName    string `yaml:"model_name"`

	StorageBackend string `yaml:"storage_backend"` // "memory", "sqlite" or "firestore"
	SQLitePath     string `yaml:"sqlite_path"`

	HFAPIKey     string `yaml:"hf_api_key"`
	UseHeuristic bool   `yaml:"use_heuristic"` // true = local heuristic models even on GCP
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load builds the config from env vars, optionally seeded from a YAML
// file named by TEMPER_CONFIG. Env vars win over the file.
func Load() *Config {
	cfg := &Config{
		Mode:           ModeLocal,
		Port:           "8080",
		LogLevel:       "info",
		GCPLocation:    "us-central1",
		ModelName:      "gemini-2.5-flash",
		StorageBackend: "memory",
		SQLitePath:     "temper.db",
	}

	if path := os.Getenv("TEMPER_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			log.Fatalf("loading config file %s: %v", path, err)
		}
	}

	if getEnv("TEMPER_MODE", string(cfg.Mode)) == "gcp" {
		cfg.Mode = ModeGCP
	} else {
		cfg.Mode = ModeLocal
	}

	cfg.Port = getEnv("TEMPER_PORT", cfg.Port)
	cfg.LogLevel = getEnv("TEMPER_LOG_LEVEL", cfg.LogLevel)

	cfg.GCPProjectID = getEnv("TEMPER_GCP_PROJECT", cfg.GCPProjectID)
	cfg.GCPLocation = getEnv("TEMPER_GCP_LOCATION", cfg.GCPLocation)
	cfg.ModelName = getEnv("TEMPER_MODEL_NAME", cfg.ModelName)

	cfg.StorageBackend = getEnv("TEMPER_STORAGE_BACKEND", cfg.StorageBackend)
	cfg.SQLitePath = getEnv("TEMPER_SQLITE_PATH", cfg.SQLitePath)

	cfg.HFAPIKey = getEnv("TEMPER_HF_API_KEY", cfg.HFAPIKey)
	cfg.UseHeuristic = getBoolEnv("TEMPER_USE_HEURISTIC", cfg.Mode == ModeLocal && cfg.HFAPIKey == "")

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("TEMPER_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	return nil
}
