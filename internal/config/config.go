package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	RedirectCacheMemory = "memory"
	RedirectCacheRedis  = "redis"
)

type Config struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Redis      `yaml:"redis"`
	Log        `yaml:"log"`
	Phrase     `yaml:"phrase"`
	Vocabulary `yaml:"vocabulary"`
	Redirect   `yaml:"redirect"`
	Visits     `yaml:"visits"`
	Events     `yaml:"events"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// Redis is used by the redis redirect cache and for event forwarding.
// An empty Addr disables both.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

var defaultLog = Log{
	Level:      "info",
	MaxSizeMB:  100,
	MaxBackups: 3,
	MaxAgeDays: 28,
}

type Phrase struct {
	MaxAttempts     int    `yaml:"max_attempts"`
	DefaultFormat   string `yaml:"default_format"`
	DefaultLanguage string `yaml:"default_language"`
}

var defaultPhrase = Phrase{
	MaxAttempts:     10,
	DefaultFormat:   "kebab-case",
	DefaultLanguage: "en",
}

// Vocabulary configures where word lists are loaded from. Source is either
// an http(s) base URL or a local directory.
type Vocabulary struct {
	Source         string        `yaml:"source"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxSizeBytes   int64         `yaml:"max_size_bytes"`
}

var defaultVocabulary = Vocabulary{
	Source:         "./vocabularies",
	CacheTTL:       12 * time.Hour,
	RequestTimeout: 5 * time.Second,
	MaxSizeBytes:   4 << 20,
}

type Redirect struct {
	Cache    string        `yaml:"cache"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

var defaultRedirect = Redirect{
	Cache:    RedirectCacheMemory,
	CacheTTL: 24 * time.Hour,
}

type Visits struct {
	FlushInterval   time.Duration `yaml:"flush_interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogTimeout      time.Duration `yaml:"log_timeout"`
}

var defaultVisits = Visits{
	FlushInterval:   time.Minute,
	ShutdownTimeout: 10 * time.Second,
	LogTimeout:      5 * time.Second,
}

// Events configures event forwarding. An empty RedisChannel keeps events in process.
type Events struct {
	RedisChannel   string        `yaml:"redis_channel"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

var defaultEvents = Events{
	PublishTimeout: 5 * time.Second,
}

// Load reads the YAML config file at path. ${VAR} references in the file are
// replaced with environment variables before decoding.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	}

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Redirect.Cache {
	case RedirectCacheMemory:
	case RedirectCacheRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redirect cache %q requires redis.addr", c.Redirect.Cache)
		}
	default:
		return fmt.Errorf("unknown redirect cache %q", c.Redirect.Cache)
	}

	if c.Events.RedisChannel != "" && c.Redis.Addr == "" {
		return fmt.Errorf("events.redis_channel requires redis.addr")
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Log = defaultLog
	cfg.Phrase = defaultPhrase
	cfg.Vocabulary = defaultVocabulary
	cfg.Redirect = defaultRedirect
	cfg.Visits = defaultVisits
	cfg.Events = defaultEvents
}
