package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name.
const DefaultConfigFile = ".cyberwatchdog"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads a YAML configuration file.
// A missing file yields ErrConfigNotFound; callers decide whether that
// matters based on whether the path was given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Labels == nil {
		f.Labels = make(map[string]string)
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file:
//  1. configPath, when given
//  2. .cyberwatchdog in the current directory
//  3. .cyberwatchdog in the home directory
//  4. config.yaml in the XDG config directory
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ResolveAPIToken returns the classifier token. An explicit value wins,
// then the process environment, then envFile. A missing envFile is not an
// error. The process environment is never modified.
func ResolveAPIToken(explicit, envFile string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if token := os.Getenv(TokenEnvVar); token != "" {
		return token, nil
	}
	if envFile == "" {
		return "", nil
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return values[TokenEnvVar], nil
}

// Load builds a Config from defaults and the configuration file found by
// FindConfigFile, then resolves the API token. An explicitly named config
// file that does not exist is an error; a missing default file is not.
func Load(configPath, envFile string) (*Config, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath
	if envFile != "" {
		cfg.EnvFile = envFile
	}

	path := FindConfigFile(configPath)
	if path == "" && configPath != "" {
		return nil, ErrConfigNotFound
	}
	if path != "" {
		f, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		f.Apply(cfg)
	}

	token, err := ResolveAPIToken("", cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	cfg.APIToken = token

	return cfg, nil
}
