package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Availability AvailabilityConfig `mapstructure:"availability"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// AvailabilityConfig carries the engine's tunables. Services maps each
// service type to its fixed duration in minutes; the catalog is closed at
// startup. SlotStepMinutes is the candidate granularity.
type AvailabilityConfig struct {
	SlotStepMinutes      int            `mapstructure:"slot_step_minutes"`
	NoticeHours          int            `mapstructure:"notice_hours"`
	RelaxedNoticeMinutes int            `mapstructure:"relaxed_notice_minutes"`
	Services             map[string]int `mapstructure:"services"`
}

// EnvOverrides are secrets supplied through the environment only.
type EnvOverrides struct {
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	RedisURL         string `envconfig:"REDIS_URL"`
}

func (c AvailabilityConfig) SlotStep() time.Duration {
	if c.SlotStepMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.SlotStepMinutes) * time.Minute
}

func (c AvailabilityConfig) NoticeEmptyDay() time.Duration {
	if c.NoticeHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.NoticeHours) * time.Hour
}

func (c AvailabilityConfig) NoticeBookedDay() time.Duration {
	if c.RelaxedNoticeMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.RelaxedNoticeMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env EnvOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}
	if env.DatabasePassword != "" {
		config.Database.Password = env.DatabasePassword
	}
	if env.RedisURL != "" {
		config.Redis.URL = env.RedisURL
	}

	return &config, nil
}
