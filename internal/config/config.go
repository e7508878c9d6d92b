package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/authbridge/gateway/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	Site      SiteConfig
	Redis     RedisConfig
	MongoDB   MongoDBConfig
	RateLimit RateLimitConfig
	Session   SessionConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RemoteConfig locates the hosted auth/data service. A missing URL or key is
// a degraded state, not a fatal one: the gateway still serves its pages and
// reports not-ready.
type RemoteConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// SiteConfig feeds email-callback link construction.
type SiteConfig struct {
	URL       string
	DeployURL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("REMOTE_TIMEOUT", 10)
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("SESSION_COOKIE_NAME", "gw_session")
	viper.SetDefault("SESSION_TTL_MINUTES", 10080)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Remote: RemoteConfig{
			URL:     viper.GetString("REMOTE_SERVICE_URL"),
			APIKey:  viper.GetString("REMOTE_SERVICE_KEY"),
			Timeout: time.Duration(viper.GetInt("REMOTE_TIMEOUT")) * time.Second,
		},
		Site: SiteConfig{
			URL:       viper.GetString("SITE_URL"),
			DeployURL: viper.GetString("DEPLOY_URL"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Session: SessionConfig{
			CookieName: viper.GetString("SESSION_COOKIE_NAME"),
			TTL:        time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
	}

	// Missing remote configuration degrades the gateway instead of killing it
	if cfg.Remote.URL == "" || cfg.Remote.APIKey == "" {
		logger.Warnf("REMOTE_SERVICE_URL or REMOTE_SERVICE_KEY is not set; auth operations will be unavailable")
	}

	return cfg, nil
}

// SiteURL resolves the site base URL used for email-callback links. The
// explicit site URL wins, then the deploy platform URL, then the supplied
// request origin. The result always carries a scheme and a trailing slash.
func (c *Config) SiteURL(requestOrigin string) string {
	url := c.Site.URL
	if url == "" {
		url = c.Site.DeployURL
	}
	if url == "" {
		url = requestOrigin
	}
	if url == "" {
		url = "http://localhost:3000"
	}
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}
