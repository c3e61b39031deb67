package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
)

const DefaultBaseURL = "https://rosca-be.vercel.app/api"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	File string `mapstructure:"file"`
}

type ServeConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerBaseURL is the origin serving uploaded media
func (c *Config) ServerBaseURL() string {
	return api.ServerBaseURL(c.API.BaseURL)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rosca"
	}
	return filepath.Join(home, ".config", "rosca")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("session.file", filepath.Join(configDir(), "session.yaml"))
	v.SetDefault("serve.addr", ":8888")
	v.SetDefault("serve.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional rosca.yaml and the
// environment (ROSCA_API_BASE_URL etc.). NEXT_PUBLIC_API_BASE_URL is honoured
// so the CLI can share a .env file with the web client. An explicit
// configFile must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("rosca")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	v.SetEnvPrefix("ROSCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.base_url", "ROSCA_API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url must not be empty")
	}
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("api.timeout must be positive, got %s", cfg.API.Timeout)
	}
	return &cfg, nil
}
