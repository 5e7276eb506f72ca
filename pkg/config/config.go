package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

type Config struct {
	StorageDir      string   `toml:"storage_dir"`
	DatabasePath    string   `toml:"database_path"`
	ListenAddr      string   `toml:"listen_addr"`
	CategoryTimeout Duration `toml:"category_timeout"`
	ReplicaRefresh  Duration `toml:"replica_refresh"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	return &Config{
		StorageDir:      storageDir,
		DatabasePath:    filepath.Join(storageDir, "content.db"),
		ListenAddr:      ":8080",
		CategoryTimeout: Duration{5 * time.Second},
		ReplicaRefresh:  Duration{30 * time.Minute},
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}

	if config.DatabasePath == "" {
		config.DatabasePath = filepath.Join(config.StorageDir, "content.db")
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	if config.CategoryTimeout.Duration == 0 {
		config.CategoryTimeout = Duration{5 * time.Second}
	}

	if config.ReplicaRefresh.Duration == 0 {
		config.ReplicaRefresh = Duration{30 * time.Minute}
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	// Replace the placeholder storage_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/islamhouse", storageDir, 2)
	return template, nil
}

// SnapshotPath returns where the replica persists its snapshot.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.StorageDir, "replica.json")
}

// GetDefaultStorageDir returns the default storage directory for the
// database and replica snapshot.
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	storageDir := filepath.Join(dataDir, "islamhouse")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", storageDir, err)
	}

	return storageDir, nil
}

// GetConfigDir returns the configuration directory
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	appConfigDir := filepath.Join(configDir, "islamhouse")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", appConfigDir, err)
	}

	return appConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
