package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	envPrefix      = "CMS"
	configFileName = "cms"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Cache  CacheConfig  `mapstructure:"cache"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	AI     AIConfig     `mapstructure:"ai"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Jobs   JobsConfig   `mapstructure:"jobs"`
	Log    LogConfig    `mapstructure:"log"`
	CORS   CORSConfig   `mapstructure:"cors"`
}

type ServerConfig struct {
	HTTPPort string `mapstructure:"http_port"`
}

type DBConfig struct {
	// Driver is postgres or sqlite.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig configures the public read cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	Compression string        `mapstructure:"compression"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
}

// AIConfig configures the generation gateway. An empty APIKey disables it.
type AIConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int64         `mapstructure:"max_tokens"`
}

// KafkaConfig configures content events. Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// JobsConfig holds cron specs (seconds first, or @every); an empty spec disables the job.
type JobsConfig struct {
	CacheWarm     string `mapstructure:"cache_warm"`
	RevisionPrune string `mapstructure:"revision_prune"`
	// RevisionKeep is how many revisions per content item survive pruning.
	RevisionKeep int `mapstructure:"revision_keep"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

var defaults = map[string]any{
	"server.http_port":    "4001",
	"db.driver":           "sqlite",
	"db.dsn":              "cms.db",
	"redis.addr":          "",
	"redis.password":      "",
	"redis.db":            0,
	"cache.ttl":           5 * time.Minute,
	"cache.compression":   "gzip",
	"jwt.secret":          "",
	"jwt.expiry":          24 * time.Hour,
	"ai.api_key":          "",
	"ai.model":            "",
	"ai.base_url":         "",
	"ai.timeout":          60 * time.Second,
	"ai.max_tokens":       4096,
	"kafka.brokers":       "",
	"kafka.topic":         "cms.content",
	"jobs.cache_warm":     "",
	"jobs.revision_prune": "",
	"jobs.revision_keep":  50,
	"log.level":           "info",
	"log.format":          "text",
	"cors.origins":        []string{"*"},
}

// Load reads cms.yml (optional) and CMS_ prefixed environment variables, in that order of
// precedence from lowest to highest.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("ai.api_key", "CMS_AI_API_KEY", "ANTHROPIC_API_KEY")

	v.SetConfigName(configFileName)
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cms")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads the configuration and exits the process when it is malformed.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}
	return cfg
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (CMS_JWT_SECRET)")
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("jwt.expiry must be positive")
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	return nil
}

// ConfigureLogging applies log.level and log.format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", c.Log.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Dialector returns the gorm dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DB.Driver {
	case "postgres":
		return postgres.Open(c.DB.DSN), nil
	case "sqlite":
		return sqlite.Open(c.DB.DSN), nil
	}
	return nil, fmt.Errorf("unknown db.driver %q", c.DB.Driver)
}

// GetDb opens the configured database and exits the process when it cannot.
func GetDb(cfg *Config) *gorm.DB {
	dialector, err := cfg.Dialector()
	if err != nil {
		logrus.Fatalf("error opening database: %v", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.Fatalf("error opening database: %v", err)
	}

	return db
}
