package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Trust    TrustConfig    `mapstructure:"trust"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Environment string `mapstructure:"environment"`
	SecretKey   string `mapstructure:"secret_key"`
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LimitClassConfig is one named rate-limit policy. The set of classes is
// fixed at startup and read-only afterwards.
type LimitClassConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int64         `mapstructure:"max_requests"`
	FailClosed  bool          `mapstructure:"fail_closed"`
}

type LimitsConfig struct {
	Classes map[string]LimitClassConfig `mapstructure:"classes"`
}

type TrustConfig struct {
	Secret   string   `mapstructure:"secret"`
	Networks []string `mapstructure:"networks"`
}

type MetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	EnableLatency     bool `mapstructure:"enable_latency"`
	EnableConnections bool `mapstructure:"enable_connections"`
	Workers           int  `mapstructure:"workers"`
}

type AuditConfig struct {
	Enabled  bool        `mapstructure:"enabled"`
	Exporter string      `mapstructure:"exporter"`
	Kafka    KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

var globalConfig Config

func Load(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&globalConfig, decodeHook); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues(&globalConfig)

	if err := validate(&globalConfig); err != nil {
		return err
	}

	return nil
}

func setDefaultValues(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Metrics.Workers == 0 {
		cfg.Metrics.Workers = 5
	}
	if cfg.Audit.Exporter == "" {
		cfg.Audit.Exporter = "log"
	}
	if cfg.Limits.Classes == nil {
		cfg.Limits.Classes = make(map[string]LimitClassConfig)
	}
	for name, def := range defaultLimitClasses() {
		if _, ok := cfg.Limits.Classes[name]; !ok {
			cfg.Limits.Classes[name] = def
		}
	}
}

// defaultLimitClasses is the fixed set of limit classes the platform ships
// with. auth and financial fail closed: an inability to verify the limit on
// security- or money-sensitive paths must never be read as permission.
func defaultLimitClasses() map[string]LimitClassConfig {
	return map[string]LimitClassConfig{
		"auth":              {Window: 15 * time.Minute, MaxRequests: 10, FailClosed: true},
		"api":               {Window: time.Minute, MaxRequests: 100, FailClosed: false},
		"heavy":             {Window: time.Minute, MaxRequests: 10, FailClosed: false},
		"search":            {Window: time.Minute, MaxRequests: 30, FailClosed: false},
		"financial":         {Window: time.Minute, MaxRequests: 30, FailClosed: true},
		"company_aggregate": {Window: time.Minute, MaxRequests: 1000, FailClosed: false},
	}
}

func validate(cfg *Config) error {
	for name, class := range cfg.Limits.Classes {
		if class.Window <= 0 {
			return fmt.Errorf("limit class %q: window must be positive", name)
		}
		if class.MaxRequests <= 0 {
			return fmt.Errorf("limit class %q: max_requests must be positive", name)
		}
	}
	return nil
}

func GetConfig() *Config {
	return &globalConfig
}
