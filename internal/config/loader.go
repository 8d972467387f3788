package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "NOTIFIERD_CONFIG"

// Config holds runtime parameters for notifierd.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	QueueCapacity int            `json:"queue_capacity" yaml:"queue_capacity" toml:"queue_capacity"`
	LogLevel      string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	HTTPAddr      string         `json:"http_addr" yaml:"http_addr" toml:"http_addr"`
	Redis         Redis          `json:"redis" yaml:"redis" toml:"redis"`
	Relay         []Pattern      `json:"relay" yaml:"relay" toml:"relay"`
	Subscriptions []Subscription `json:"subscriptions" yaml:"subscriptions" toml:"subscriptions"`
}

// Redis configures the cross-process bridge and the subscription catalog.
// An empty Addr disables both.
type Redis struct {
	Addr          string `json:"addr" yaml:"addr" toml:"addr"`
	ChannelPrefix string `json:"channel_prefix" yaml:"channel_prefix" toml:"channel_prefix"`
	CatalogPrefix string `json:"catalog_prefix" yaml:"catalog_prefix" toml:"catalog_prefix"`
}

// Pattern is a topic pattern as written in configuration. Empty fields are wildcards.
type Pattern struct {
	EntityType    string `json:"entity_type" yaml:"entity_type" toml:"entity_type"`
	EntityID      string `json:"entity_id" yaml:"entity_id" toml:"entity_id"`
	Operation     string `json:"operation" yaml:"operation" toml:"operation"`
	AttributeName string `json:"attribute_name" yaml:"attribute_name" toml:"attribute_name"`
}

// Subscription is a named pattern whose events notifierd logs.
type Subscription struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Pattern `yaml:",inline"`
}

// Topic converts the pattern into a validated notifier.Topic.
func (p Pattern) Topic() (notifier.Topic, error) {
	op, err := core.ParseOperation(p.Operation)
	if err != nil {
		return notifier.Topic{}, err
	}
	return notifier.NewTopic(
		notifier.WithEntityType(p.EntityType),
		notifier.WithEntityID(p.EntityID),
		notifier.WithOperation(op),
		notifier.WithAttributeName(p.AttributeName),
	)
}

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8090"
	}
	if c.QueueCapacity < 0 {
		c.QueueCapacity = 0
	}
	return c
}

// Validate checks every configured pattern.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Subscriptions))
	for i, s := range c.Subscriptions {
		if s.Name == "" {
			return fmt.Errorf("subscriptions[%d]: empty name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("subscriptions[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
		if _, err := s.Topic(); err != nil {
			return fmt.Errorf("subscriptions[%d] %q: %w", i, s.Name, err)
		}
	}
	for i, p := range c.Relay {
		if _, err := p.Topic(); err != nil {
			return fmt.Errorf("relay[%d]: %w", i, err)
		}
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Resolve loads path, or the file named by NOTIFIERD_CONFIG when path is empty,
// applies defaults and validates. With neither set it returns the defaults.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	var cfg Config
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
