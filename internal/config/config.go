package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Notify    NotifyConfig    `yaml:"notify"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Debug        bool          `yaml:"debug"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	PoolSize int    `yaml:"pool_size"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (p PostgresConfig) DSN() string {
	return "postgres://" + p.User + ":" + p.Password + "@" + p.Host + ":" +
		strconv.Itoa(p.Port) + "/" + p.Database + "?sslmode=" + p.SSLMode
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

// ScraperConfig controls the shared browser session and adapter pacing.
type ScraperConfig struct {
	Headless       bool          `yaml:"headless"`
	UserAgent      string        `yaml:"user_agent"`
	NavTimeout     time.Duration `yaml:"nav_timeout"`
	WaitTimeout    time.Duration `yaml:"wait_timeout"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
	TermDelay      time.Duration `yaml:"term_delay"`
	ContactTimeout time.Duration `yaml:"contact_timeout"`
	DisableImages  bool          `yaml:"disable_images"`
	WindowWidth    int           `yaml:"window_width"`
	WindowHeight   int           `yaml:"window_height"`
	InternshipsAPI string        `yaml:"internships_api"`
	EnrichContacts bool          `yaml:"enrich_contacts"`
}

type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Spec    string `yaml:"spec"` // cron spec, e.g. "0 6 * * *"
}

type NotifyConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SubscribersKey string `yaml:"subscribers_key"`
	ChannelPrefix  string `yaml:"channel_prefix"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := defaultConfig()

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Debug:        false,
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "internhub",
				Password: "password",
				Database: "internhub",
				PoolSize: 25,
				SSLMode:  "disable",
			},
			Redis: RedisConfig{
				URL: "redis://localhost:6379/0",
			},
		},
		Scraper: ScraperConfig{
			Headless:       true,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavTimeout:     30 * time.Second,
			WaitTimeout:    15 * time.Second,
			SettleDelay:    2 * time.Second,
			TermDelay:      2 * time.Second,
			ContactTimeout: 15 * time.Second,
			DisableImages:  true,
			WindowWidth:    1920,
			WindowHeight:   1080,
			InternshipsAPI: "https://www.internships.com/api/v1/internships",
			EnrichContacts: true,
		},
		Scheduler: SchedulerConfig{
			Enabled: true,
			Spec:    "0 6 * * *",
		},
		Notify: NotifyConfig{
			Enabled:        true,
			SubscribersKey: "notify:subscribers",
			ChannelPrefix:  "user:",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         600,
		},
	}
}

func (c *Config) loadFromEnv() {
	// Server
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DEBUG"); v == "true" {
		c.Server.Debug = true
	}

	// Database
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Database.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Postgres.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		c.Database.Postgres.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Database.Postgres.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		c.Database.Postgres.Database = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Database.Redis.URL = v
	}

	// Scraper
	if v := os.Getenv("SCRAPER_HEADLESS"); v == "false" {
		c.Scraper.Headless = false
	}
	if v := os.Getenv("SCRAPER_USER_AGENT"); v != "" {
		c.Scraper.UserAgent = v
	}
	if v := os.Getenv("INTERNSHIPS_API_URL"); v != "" {
		c.Scraper.InternshipsAPI = v
	}

	// Scheduler
	if v := os.Getenv("SCRAPE_CRON"); v != "" {
		c.Scheduler.Spec = v
	}
	if v := os.Getenv("SCRAPE_CRON_DISABLED"); v == "true" {
		c.Scheduler.Enabled = false
	}
}
