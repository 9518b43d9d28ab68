package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/smartlib/library-service/internal/server"
	"github.com/smartlib/library-service/pkg/kafka"
	"github.com/smartlib/library-service/pkg/logger"
	"github.com/smartlib/library-service/pkg/postgres"
)

type Config struct {
	Server     server.Config   `yaml:"server"`
	Database   postgres.Config `yaml:"database"`
	Kafka      kafka.Config    `yaml:"kafka"`
	Log        logger.Log      `yaml:"log"`
	SessionTTL time.Duration   `yaml:"sessionTTL" envconfig:"SESSION_TTL" default:"30m"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}
