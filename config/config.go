package config

import (
	"fmt"
	"strings"
	"studioboard/persistence"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8080"`
	GinMode       string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON       bool   `envconfig:"LOG_JSON" default:"false"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	DBDriver string `envconfig:"DB_DRIVER" default:"mysql"`
	DBDSN    string `envconfig:"DB_DSN" default:"root:root@(127.0.0.1:3306)/studioboard?charset=utf8mb4&parseTime=True&loc=Local"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	// InsecureTokenLogin enables sign-in by user id only, without a secret.
	InsecureTokenLogin bool          `envconfig:"INSECURE_TOKEN_LOGIN" default:"false"`
	SessionExpiration  time.Duration `envconfig:"SESSION_EXPIRATION" default:"24h"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// ElasticsearchEnabled turns on project search, the cluster address is
	// read by the client from ELASTICSEARCH_URL.
	ElasticsearchEnabled bool          `envconfig:"ELASTICSEARCH_ENABLED" default:"false"`
	ReindexCron          string        `envconfig:"REINDEX_CRON" default:"@daily"`
	IndexRecoveryEvery   time.Duration `envconfig:"INDEX_RECOVERY_EVERY" default:"1m"`

	OSSEndpoint  string `envconfig:"OSS_ENDPOINT"`
	OSSAccessKey string `envconfig:"OSS_ACCESS_KEY"`
	OSSSecretKey string `envconfig:"OSS_SECRET_KEY"`
	OSSBucket    string `envconfig:"OSS_BUCKET" default:"studioboard"`

	TracingEnabled bool `envconfig:"TRACING_ENABLED" default:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Database().Validate(); err != nil {
		return err
	}
	if c.SessionExpiration <= 0 {
		return fmt.Errorf("session expiration must be positive, got %s", c.SessionExpiration)
	}
	if c.ElasticsearchEnabled && c.IndexRecoveryEvery <= 0 {
		return fmt.Errorf("index recovery interval must be positive, got %s", c.IndexRecoveryEvery)
	}
	if !strings.HasPrefix(c.PublicBaseURL, "http://") && !strings.HasPrefix(c.PublicBaseURL, "https://") {
		return fmt.Errorf("public base url must be absolute, got %q", c.PublicBaseURL)
	}
	return nil
}

func (c *Config) Database() *persistence.DatabaseConfig {
	return &persistence.DatabaseConfig{DriverType: c.DBDriver, DriverArgs: c.DBDSN, LogSQL: c.GinMode != "release"}
}

func (c *Config) OSSConfigured() bool {
	return c.OSSEndpoint != "" && c.OSSAccessKey != "" && c.OSSSecretKey != ""
}
