package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Environment string `koanf:"environment"`
	Port        string `koanf:"port"`
	LogLevelRaw string `koanf:"log_level"`

	LogLevel slog.Level `koanf:"-"`

	StoreDriver string `koanf:"store_driver"`
	DatabaseURL string `koanf:"database_url"`
	RedisURL    string `koanf:"redis_url"`

	// CORSOrigins lists browser origins allowed to call the API with the session cookie
	CORSOrigins []string `koanf:"cors_origins"`

	Casdoor CasdoorConfig `koanf:"casdoor"`
	Kafka   KafkaConfig   `koanf:"kafka"`
	AI      AIConfig      `koanf:"ai"`
	Media   MediaConfig   `koanf:"media"`

	BannerTTL      time.Duration `koanf:"banner_ttl"`
	PageIdleTTL    time.Duration `koanf:"page_idle_ttl"`
	CascadeDeletes bool          `koanf:"cascade_deletes"`
}

type CasdoorConfig struct {
	Endpoint     string `koanf:"endpoint"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Cert         string `koanf:"cert"`
	Organization string `koanf:"organization"`
	Application  string `koanf:"application"`
}

type KafkaConfig struct {
	Brokers       []string `koanf:"brokers"`
	ConsumerGroup string   `koanf:"consumer_group"`
	Topic         string   `koanf:"topic"`
}

type AIConfig struct {
	Endpoint      string        `koanf:"endpoint"`
	APIKey        string        `koanf:"api_key"`
	Model         string        `koanf:"model"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
}

type MediaConfig struct {
	Endpoint     string        `koanf:"endpoint"`
	UploadPreset string        `koanf:"upload_preset"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxBytes     int64         `koanf:"max_bytes"`
}

// sections whose env vars are split into "section.field"
var sections = map[string]bool{
	"casdoor": true,
	"kafka":   true,
	"ai":      true,
	"media":   true,
}

// LoadConfig reads an optional .env file, an optional YAML file named by CONFIG_FILE,
// then environment variables, which win over both.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// comma separated broker lists arrive as a single string from the environment
	if brokers, ok := k.Get("kafka.brokers").(string); ok {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	if origins, ok := k.Get("cors_origins").(string); ok {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envKey maps CASDOOR_CLIENT_ID to casdoor.client_id and DATABASE_URL to database_url
func envKey(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 2 && sections[parts[0]] {
		return parts[0] + "." + parts[1]
	}
	return lower
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = StoreDriverPostgres
	}
	c.LogLevel = parseLevel(c.LogLevelRaw)

	if c.Kafka.ConsumerGroup == "" {
		host, _ := os.Hostname()
		c.Kafka.ConsumerGroup = "learnhub-" + host
	}

	if c.AI.Timeout <= 0 {
		c.AI.Timeout = 30 * time.Second
	}
	if c.AI.RatePerSecond <= 0 {
		c.AI.RatePerSecond = 2
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}

	if c.Media.Timeout <= 0 {
		c.Media.Timeout = 60 * time.Second
	}
	if c.Media.MaxBytes <= 0 {
		c.Media.MaxBytes = 50 << 20
	}

	if c.BannerTTL <= 0 {
		c.BannerTTL = 5 * time.Second
	}
	if c.PageIdleTTL <= 0 {
		c.PageIdleTTL = 30 * time.Minute
	}
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects configurations missing values the selected drivers need
func (c *Config) Validate() error {
	var problems []string

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.Casdoor.Endpoint == "" {
		problems = append(problems, "CASDOOR_ENDPOINT is required")
	}
	if c.Casdoor.ClientID == "" {
		problems = append(problems, "CASDOOR_CLIENT_ID is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
