package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultAPIURL is used when neither the config file nor the environment
// provides a backend address.
const DefaultAPIURL = "http://localhost:3000/api"

// EnvAPIURL overrides the configured backend base URL when set
const EnvAPIURL = "TASKSPHERE_API_URL"

type Config struct {
	APIURL string `json:"api_url"`
	DBPath string `json:"db_path"`
}

func Default() Config {
	return Config{APIURL: DefaultAPIURL}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tasksphere", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the config file at path, falling back to defaults when it does
// not exist. The TASKSPHERE_API_URL environment variable wins over the file.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
	} else if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if url := os.Getenv(EnvAPIURL); url != "" {
		config.APIURL = url
	}
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
