package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Server  ServerConfig  `mapstructure:"server"`
	Twitter TwitterConfig `mapstructure:"twitter"`
	Sync    SyncConfig    `mapstructure:"sync"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type TwitterConfig struct {
	BearerToken string `mapstructure:"bearer_token"`
	CSRFToken   string `mapstructure:"csrf_token"`
	Cookies     string `mapstructure:"cookies"`
	QueryID     string `mapstructure:"query_id"`
}

type SyncConfig struct {
	PageSize int `mapstructure:"page_size"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".twitter-bookmarks")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("twitter.query_id", "43OUXyQe2KB6BLfli5CFPA")
	viper.SetDefault("sync.page_size", 100)

	// Environment variable overrides
	viper.SetEnvPrefix("TBM")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "TBM_DATA_DIR")
	viper.BindEnv("server.addr", "TBM_SERVER_ADDR")
	viper.BindEnv("twitter.bearer_token", "TWITTER_BEARER_TOKEN")
	viper.BindEnv("twitter.csrf_token", "TWITTER_CSRF_TOKEN")
	viper.BindEnv("twitter.cookies", "TWITTER_COOKIES")
	viper.BindEnv("twitter.query_id", "TWITTER_GRAPHQL_QUERY_ID")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultDataDir)

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Sync.PageSize <= 0 {
		cfg.Sync.PageSize = 100
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateTwitter checks that the credentials a sync needs are present.
func (c *Config) ValidateTwitter() error {
	if c.Twitter.BearerToken == "" {
		return fmt.Errorf("twitter.bearer_token is not set")
	}
	if c.Twitter.CSRFToken == "" {
		return fmt.Errorf("twitter.csrf_token is not set")
	}
	if c.Twitter.Cookies == "" {
		return fmt.Errorf("twitter.cookies is not set")
	}
	return nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "bookmarks.db")
}
