// Package config loads server configuration from an optional config.yaml
// plus BRIDGETECH_* environment overrides.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Retention RetentionConfig `mapstructure:"retention"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
	// Env selects dev conveniences like device seeding: "dev" or "prod".
	Env string `mapstructure:"env"`
}

type RetentionConfig struct {
	// Days of event history to keep; 0 disables pruning.
	Days          int `mapstructure:"days"`
	IntervalHours int `mapstructure:"interval_hours"`
}

type IngestConfig struct {
	// SpoolDir is watched for dropped CSV log files; empty disables it.
	SpoolDir string `mapstructure:"spool_dir"`
}

type KafkaConfig struct {
	// Brokers is empty when Kafka ingestion is disabled.
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type StatsConfig struct {
	// Window is the maximum wait considered valid; longer pending calls
	// are treated as anomalous and excluded from the aggregates.
	Window time.Duration `mapstructure:"window"`
}

// Load reads config.yaml from the working directory or ./config, applies
// environment overrides (BRIDGETECH_SERVER_ADDR etc.), and fills defaults.
// A missing config file is fine; environment and defaults carry it.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("BRIDGETECH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.path", "./data/bridgetech.db")
	v.SetDefault("db.env", "dev")
	v.SetDefault("retention.days", 0)
	v.SetDefault("retention.interval_hours", 6)
	v.SetDefault("ingest.spool_dir", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "elevator-events")
	v.SetDefault("kafka.group_id", "bridgetech-server")
	v.SetDefault("stats.window", 10*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
