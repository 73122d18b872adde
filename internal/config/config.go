package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Email      EmailConfig      `yaml:"email"`
	AI         AIConfig         `yaml:"ai"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Redis      RedisConfig      `yaml:"redis"`
	Escalation EscalationConfig `yaml:"escalation"`
	Digest     DigestConfig     `yaml:"digest"`
	App        AppConfig        `yaml:"app"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// EmailConfig configures outbound mail. SendGrid is the primary transport;
// SMTP is used only when no SendGrid API key is configured.
type EmailConfig struct {
	SendGridAPIKey string     `yaml:"sendgrid_api_key"`
	SMTP           SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// AIConfig is the fallback provider used when no provider rows exist in the database.
type AIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// ScraperConfig configures the third-party review scraping API.
type ScraperConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// RedisConfig for optional async task queue
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type EscalationConfig struct {
	// PollInterval is the internal checker interval as a cron spec, e.g. "@every 1m".
	// The HTTP trigger endpoint works regardless.
	PollInterval string `yaml:"poll_interval"`
	// TokenExpiryHours is how long approval tokens stay redeemable.
	TokenExpiryHours int `yaml:"token_expiry_hours"`
}

type DigestConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Time        string `yaml:"time"`          // HH:MM, local server time
	CountryCode string `yaml:"country_code"`  // business calendar country, "NONE" = every day
	WorkdayOnly bool   `yaml:"workdays_only"` // skip weekends/holidays
}

type AppConfig struct {
	// PublicBaseURL is the externally reachable URL used in QR codes and
	// approval links, e.g. "https://feedback.example.com".
	PublicBaseURL string `yaml:"public_base_url"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "guestglow.db",
		},
		JWT: JWTConfig{
			Secret:     "guestglow-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Email: EmailConfig{
			SMTP: SMTPConfig{Port: 587},
		},
		AI: AIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		Escalation: EscalationConfig{
			PollInterval:     "@every 1m",
			TokenExpiryHours: 72,
		},
		Digest: DigestConfig{
			Enabled:     false,
			Time:        "08:00",
			CountryCode: "NONE",
		},
		App: AppConfig{
			PublicBaseURL: "http://localhost:8080",
		},
	}
}

// applyDefaults backfills zero values that would otherwise break schedules.
func (c *Config) applyDefaults() {
	if c.Escalation.PollInterval == "" {
		c.Escalation.PollInterval = "@every 1m"
	}
	if c.Escalation.TokenExpiryHours == 0 {
		c.Escalation.TokenExpiryHours = 72
	}
	if c.Digest.Time == "" {
		c.Digest.Time = "08:00"
	}
	if c.Digest.CountryCode == "" {
		c.Digest.CountryCode = "NONE"
	}
	if c.App.PublicBaseURL == "" {
		c.App.PublicBaseURL = "http://localhost:8080"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		c.Email.SendGridAPIKey = key
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		c.Email.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Email.SMTP.Port = p
		}
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		c.Email.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		c.Email.SMTP.Password = pass
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		c.AI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.AI.APIKey = apiKey
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if baseURL := os.Getenv("SCRAPER_BASE_URL"); baseURL != "" {
		c.Scraper.BaseURL = baseURL
	}
	if apiKey := os.Getenv("SCRAPER_API_KEY"); apiKey != "" {
		c.Scraper.APIKey = apiKey
	}
	if publicURL := os.Getenv("PUBLIC_BASE_URL"); publicURL != "" {
		c.App.PublicBaseURL = publicURL
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		// Password format: :password or user:password
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	// Remaining is host:port
	c.Redis.Addr = url
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
