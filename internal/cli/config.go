package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-adjustable settings shared by all commands. It is read
// from a TOML file; every field has a working default so the file is
// optional.
type Config struct {
	// CacheDir overrides the XDG cache directory.
	CacheDir string `toml:"cache_dir"`

	Serve ServeConfig `toml:"serve"`
	Store StoreConfig `toml:"store"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// RedisAddr switches the server cache from files to Redis when set.
	RedisAddr string `toml:"redis_addr"`

	// CacheTTLMinutes bounds how long derived artifacts stay cached.
	// Zero means entries never expire.
	CacheTTLMinutes int `toml:"cache_ttl_minutes"`
}

// StoreConfig configures named-tree persistence.
type StoreConfig struct {
	// Backend selects the store implementation: "file" or "mongo".
	Backend string `toml:"backend"`

	// Dir is the directory for the file backend. Empty uses the default
	// config location.
	Dir string `toml:"dir"`

	// MongoURI, MongoDatabase and MongoCollection configure the mongo
	// backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Serve: ServeConfig{
			Addr:            ":8080",
			CacheTTLMinutes: 60,
		},
		Store: StoreConfig{
			Backend:         "file",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "fumetree",
			MongoCollection: "trees",
		},
	}
}

// configPath returns the default config file location
// (~/.config/fumetree/config.toml, honoring XDG_CONFIG_HOME).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, applying defaults for missing
// fields. If path is empty, the default location is used. A missing file is
// not an error; a malformed file is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = configPath()
		if err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault is LoadConfig that degrades to defaults on error.
// Used at CLI construction time, where a broken config file should not
// prevent --help from working.
func LoadConfigOrDefault(path string) Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}
