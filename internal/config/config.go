package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Journal drivers
const (
	DriverNone     = "none"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AFTERMATH_"

// Config holds all simulator configuration
type Config struct {
	Mod     ModConfig     `yaml:"mod"`
	Log     LogConfig     `yaml:"log"`
	Journal JournalConfig `yaml:"journal"`
	Game    GameConfig    `yaml:"game"`
}

// ModConfig locates the content catalog
type ModConfig struct {
	Path           string `yaml:"path"`
	ValidateSchema bool   `yaml:"validate_schema"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// JournalConfig selects where audit entries go
type JournalConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"` // file prefix or sqlite database
	DSN    string      `yaml:"dsn"`  // postgres connection string
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
}

// GameConfig holds simulation settings
type GameConfig struct {
	Turns int `yaml:"turns"`
}

// Load reads configuration from a YAML file, then applies a .env file if
// one is present and AFTERMATH_* environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML config and applies environment overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Mod.Path == "" {
		c.Mod.Path = "./configs/mods/default.yaml"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Journal.Driver == "" {
		c.Journal.Driver = DriverNone
	}
	if c.Journal.Path == "" {
		switch c.Journal.Driver {
		case DriverFile:
			c.Journal.Path = "./data/journal"
		case DriverSQLite:
			c.Journal.Path = "./data/journal.db"
		}
	}
	if c.Journal.Redis.Address == "" {
		c.Journal.Redis.Address = "localhost:6379"
	}
	if c.Journal.Redis.Stream == "" {
		c.Journal.Redis.Stream = "aftermath:journal"
	}
	if c.Game.Turns == 0 {
		c.Game.Turns = 10
	}
}

func (c *Config) validate() error {
	switch c.Journal.Driver {
	case DriverNone, DriverFile, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal driver %q requires a dsn", c.Journal.Driver)
		}
	default:
		return fmt.Errorf("unknown journal driver %q", c.Journal.Driver)
	}
	if c.Game.Turns < 0 {
		return fmt.Errorf("game.turns must not be negative, got %d", c.Game.Turns)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"MOD_PATH":       &c.Mod.Path,
		"LOG_LEVEL":      &c.Log.Level,
		"JOURNAL_DRIVER": &c.Journal.Driver,
		"JOURNAL_PATH":   &c.Journal.Path,
		"JOURNAL_DSN":    &c.Journal.DSN,
		"REDIS_ADDRESS":  &c.Journal.Redis.Address,
		"REDIS_PASSWORD": &c.Journal.Redis.Password,
		"REDIS_STREAM":   &c.Journal.Redis.Stream,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":   &c.Journal.Redis.DB,
		"GAME_TURNS": &c.Game.Turns,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"LOG_JSON":            &c.Log.JSON,
		"MOD_VALIDATE_SCHEMA": &c.Mod.ValidateSchema,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}
	return nil
}
