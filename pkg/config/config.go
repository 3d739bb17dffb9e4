package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Logging     struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Ops struct {
		EnginePort      int           `yaml:"engine_port" default:"8081"`
		OMSPort         int           `yaml:"oms_port" default:"8082"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"ops"`
	Bus struct {
		Backend string `yaml:"backend" default:"redis"`
		Topic   string `yaml:"topic" default:"trading_signals"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers []string      `yaml:"brokers"`
			GroupID string        `yaml:"group_id" default:"oms"`
			MaxWait time.Duration `yaml:"max_wait" default:"500ms"`
		} `yaml:"kafka"`
		ReconnectMax     int           `yaml:"reconnect_max" default:"10"`
		ReconnectBackoff time.Duration `yaml:"reconnect_backoff" default:"250ms"`
		ReconnectCeiling time.Duration `yaml:"reconnect_ceiling" default:"15s"`
	} `yaml:"bus"`
	Engine struct {
		CycleInterval time.Duration `yaml:"cycle_interval" default:"10s"`
		Symbol        string        `yaml:"symbol" default:"EURUSD"`
	} `yaml:"engine"`
	Strategy struct {
		Mode        string  `yaml:"mode" default:"random"`
		Probability float64 `yaml:"probability" default:"0.1"`
	} `yaml:"strategy"`
	Directory struct {
		Path string `yaml:"path" default:"accounts.db"`
	} `yaml:"directory"`
	MarketData struct {
		Provider string `yaml:"provider" default:"sim"`
		Sim      struct {
			MinPrice float64 `yaml:"min_price" default:"1.05"`
			MaxPrice float64 `yaml:"max_price" default:"1.15"`
		} `yaml:"sim"`
		WS struct {
			URL            string        `yaml:"url"`
			Symbols        []string      `yaml:"symbols"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
			PingInterval   time.Duration `yaml:"ping_interval" default:"15s"`
			Staleness      time.Duration `yaml:"staleness" default:"30s"`
		} `yaml:"ws"`
	} `yaml:"marketdata"`
	Journal struct {
		Enabled    bool `yaml:"enabled"`
		ClickHouse struct {
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"9000"`
			Database     string        `yaml:"database" default:"sigflow"`
			User         string        `yaml:"user" default:"default"`
			Password     string        `yaml:"password"`
			DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"clickhouse"`
	} `yaml:"journal"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BUS_BACKEND"); v != "" {
		c.Bus.Backend = v
	}
	if v := os.Getenv("BUS_TOPIC"); v != "" {
		c.Bus.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Bus.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Bus.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TRADING_SYMBOL"); v != "" {
		c.Engine.Symbol = v
	}
	if v := os.Getenv("DIRECTORY_PATH"); v != "" {
		c.Directory.Path = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Bus.Topic == "" {
		return fmt.Errorf("bus.topic is required")
	}
	switch c.Bus.Backend {
	case "redis":
		if c.Bus.Redis.Addr == "" {
			return fmt.Errorf("bus.redis.addr is required")
		}
	case "kafka":
		if len(c.Bus.Kafka.Brokers) == 0 {
			return fmt.Errorf("bus.kafka.brokers cannot be empty")
		}
	default:
		return fmt.Errorf("bus.backend must be 'redis' or 'kafka', got '%s'", c.Bus.Backend)
	}
	if c.Engine.CycleInterval <= 0 {
		return fmt.Errorf("engine.cycle_interval must be positive")
	}
	if c.Engine.Symbol == "" {
		return fmt.Errorf("engine.symbol is required")
	}
	if c.Strategy.Probability < 0 || c.Strategy.Probability > 1 {
		return fmt.Errorf("strategy.probability must be in [0,1], got %v", c.Strategy.Probability)
	}
	if c.Directory.Path == "" {
		return fmt.Errorf("directory.path is required")
	}
	switch c.MarketData.Provider {
	case "sim":
		if c.MarketData.Sim.MinPrice <= 0 || c.MarketData.Sim.MaxPrice < c.MarketData.Sim.MinPrice {
			return fmt.Errorf("marketdata.sim price band is invalid")
		}
	case "ws":
		if c.MarketData.WS.URL == "" {
			return fmt.Errorf("marketdata.ws.url is required")
		}
	default:
		return fmt.Errorf("marketdata.provider must be 'sim' or 'ws', got '%s'", c.MarketData.Provider)
	}
	return nil
}
