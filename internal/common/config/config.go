package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvProd = "prod"
	EnvTest = "test"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env string `yaml:"env" env:"ENV" env-default:"prod" env-upd:""`

	Log Log `yaml:"log"`

	Storage  string   `yaml:"storage" env:"STORAGE" env-default:"postgres" env-upd:""`
	SeedFile string   `yaml:"seed_file" env:"SEED_FILE" env-upd:""`
	Postgres Postgres `yaml:"postgres"`

	HTTP     HTTP     `yaml:"http"`
	Ledger   Ledger   `yaml:"ledger"`
	Telegram Telegram `yaml:"telegram"`
	Quotes   Quotes   `yaml:"quotes"`
}

type Log struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-default:"info" env-upd:""`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"console" env-upd:""`
}

type Postgres struct {
	Database string `yaml:"database" env:"POSTGRES_DATABASE" env-upd:""`
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost" env-upd:""`
	Username string `yaml:"username" env:"POSTGRES_USER" env-upd:""`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-upd:""`
	Port     int64  `yaml:"port" env:"POSTGRES_PORT" env-default:"5432" env-upd:""`
	MaxConns int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10" env-upd:""`
}

type HTTP struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080" env-upd:""`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s" env-upd:""`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s" env-upd:""`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"5s" env-upd:""`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s" env-upd:""`
}

type Ledger struct {
	// TxRetries is how many times a transaction that hit a deadlock or serialization
	// failure is re-run.
	TxRetries uint64 `yaml:"tx_retries" env:"LEDGER_TX_RETRIES" env-default:"3" env-upd:""`
}

type Telegram struct {
	Enabled   bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-upd:""`
	APIKey    string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-upd:""`
	QueueSize int    `yaml:"queue_size" env:"TELEGRAM_QUEUE_SIZE" env-default:"256" env-upd:""`
}

type Quotes struct {
	APIKey            string        `yaml:"api_key" env:"QUOTES_API_KEY" env-upd:""`
	BaseURL           string        `yaml:"base_url" env:"QUOTES_BASE_URL" env-default:"https://www.alphavantage.co/query" env-upd:""`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"QUOTES_REQUESTS_PER_MINUTE" env-default:"5" env-upd:""`
	CacheTTL          time.Duration `yaml:"cache_ttl" env:"QUOTES_CACHE_TTL" env-default:"1m" env-upd:""`
}

func (c *Config) GetPostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Postgres.Username, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port, c.Postgres.Database)
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.Postgres.Database == "" {
			return fmt.Errorf("postgres.database is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.Telegram.Enabled && c.Telegram.APIKey == "" {
		return fmt.Errorf("telegram.api_key is required when telegram is enabled")
	}

	if c.Quotes.RequestsPerMinute < 0 {
		return fmt.Errorf("quotes.requests_per_minute must not be negative")
	}

	return nil
}

// GetConfig reads the YAML file at configPath, overlays the environment and validates
// the result.
func GetConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config path is required")
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cleanenv.UpdateEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to update config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
