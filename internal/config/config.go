package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST,required"`
	Port     int    `yaml:"port" env:"DB_PORT,required"`
	User     string `yaml:"user" env:"DB_USER,required"`
	Password string `yaml:"password" env:"DB_PASSWORD,required"`
	DBName   string `yaml:"dbname" env:"DB_NAME,required"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE,required"`
}

// PlantConfig describes one remote time-clock installation to sync
// punches and rosters from.
type PlantConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		Timezone string `yaml:"timezone"`
	} `yaml:"server"`

	Database DatabaseConfig `yaml:"database"`

	Sync struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		WindowHours     int `yaml:"window_hours"`
	} `yaml:"sync"`

	Plants []PlantConfig `yaml:"plants"`

	Discord struct {
		Enabled   bool   `yaml:"enabled"`
		Token     string `yaml:"token" env:"DISCORD_TOKEN"`
		ChannelID string `yaml:"channel_id" env:"DISCORD_CHANNEL_ID"`
	} `yaml:"discord"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Replace environment variables in the YAML content
	content := string(data)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		placeholder := "${" + pair[0] + "}"
		content = strings.ReplaceAll(content, placeholder, pair[1])
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Convert DB_PORT from string to int if it's an environment variable
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT value: %w", err)
		}
		cfg.Database.Port = port
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Timezone == "" {
		c.Server.Timezone = "America/Mexico_City"
	}
	if c.Sync.IntervalMinutes <= 0 {
		c.Sync.IntervalMinutes = 5
	}
	if c.Sync.WindowHours <= 0 {
		c.Sync.WindowHours = 48
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
