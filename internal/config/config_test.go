package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4001", cfg.Server.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)

	// no secret configured
	assert.Error(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CMS_SERVER_HTTP_PORT", "8080")
	t.Setenv("CMS_DB_DRIVER", "postgres")
	t.Setenv("CMS_DB_DSN", "postgres://cms@localhost/cms")
	t.Setenv("CMS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CMS_CACHE_TTL", "30s")
	t.Setenv("CMS_JWT_SECRET", "s3cret")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("CMS_KAFKA_BROKERS", "localhost:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://cms@localhost/cms", cfg.DB.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "localhost:9092", cfg.Kafka.Brokers)
	assert.NoError(t, cfg.Validate())

	dialector, err := cfg.Dialector()
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialector.Name())
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Secret: "x", Expiry: time.Hour}, DB: DBConfig{Driver: "mysql"}}
	assert.Error(t, cfg.Validate())

	cfg.DB.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	cfg := &Config{Log: LogConfig{Level: "debug", Format: "json"}}
	cfg.ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	cfg.Log.Level = "nonsense"
	cfg.ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
