package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ryandielhenn/gossipcache/pkg/mcache"
	"github.com/ryandielhenn/gossipcache/pkg/message"
)

// Config is the gossipcache server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	Gossip  GossipConfig  `yaml:"gossip"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

type CacheConfig struct {
	GossipWindow  int `yaml:"gossip_window"`
	HistoryLength int `yaml:"history_length"`
	// IDStrategy is "sender" (From + Seqno) or "content" (payload digest).
	IDStrategy string `yaml:"id_strategy"`
}

type GossipConfig struct {
	HeartbeatInterval    time.Duration `yaml:"-"`
	HeartbeatIntervalRaw string        `yaml:"heartbeat_interval"`
	MaxRetransmission    int           `yaml:"max_retransmission"`
	Topics               []string      `yaml:"topics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a config that is valid on its own.
func Default() *Config {
	return &Config{
		Server: ServerConfig{HTTPAddr: ":8080"},
		Cache: CacheConfig{
			GossipWindow:  3,
			HistoryLength: 5,
			IDStrategy:    "sender",
		},
		Gossip: GossipConfig{
			HeartbeatInterval: time.Second,
			MaxRetransmission: 3,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path over the defaults, expands ${VAR}
// references, applies environment overrides and validates the result.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if raw := cfg.Gossip.HeartbeatIntervalRaw; raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing heartbeat_interval %q: %w", raw, err)
			}
			cfg.Gossip.HeartbeatInterval = d
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value, or "" if unset.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envRef.FindStringSubmatch(match)[1])
	})
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SELF_ADDR"); v != "" {
		cfg.Server.HTTPAddr = v
	}
	if v := os.Getenv("ID_STRATEGY"); v != "" {
		cfg.Cache.IDStrategy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	var errs *multierror.Error
	for name, dst := range map[string]*int{
		"GOSSIP_WINDOW":      &cfg.Cache.GossipWindow,
		"HISTORY_LENGTH":     &cfg.Cache.HistoryLength,
		"MAX_RETRANSMISSION": &cfg.Gossip.MaxRetransmission,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		*dst = n
	}
	if v := os.Getenv("HEARTBEAT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("HEARTBEAT_INTERVAL: %w", err))
		} else {
			cfg.Gossip.HeartbeatInterval = d
		}
	}
	return errs.ErrorOrNil()
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Server.HTTPAddr == "" {
		errs = multierror.Append(errs, fmt.Errorf("server.http_addr is required"))
	}
	if err := c.MCache().Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if _, err := c.IDFunc(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.Gossip.HeartbeatInterval <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("gossip.heartbeat_interval must be positive"))
	}
	if c.Gossip.MaxRetransmission < 1 {
		errs = multierror.Append(errs, fmt.Errorf("gossip.max_retransmission must be at least 1"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = multierror.Append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errs.ErrorOrNil()
}

// IDFunc resolves the configured identifier strategy.
func (c *Config) IDFunc() (message.IDFunc, error) {
	switch c.Cache.IDStrategy {
	case "", "sender":
		return message.DefaultMsgID, nil
	case "content":
		return message.ContentMsgID, nil
	default:
		return nil, fmt.Errorf("cache.id_strategy must be sender or content, got %q", c.Cache.IDStrategy)
	}
}

// MCache converts the cache section to an mcache.Config.
func (c *Config) MCache() mcache.Config {
	idFn, _ := c.IDFunc()
	return mcache.Config{
		GossipWindow:  c.Cache.GossipWindow,
		HistoryLength: c.Cache.HistoryLength,
		IDFn:          idFn,
	}
}

// Logger builds a zap logger from the logging section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
