package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DBDriver string

const (
	DBDriverSQLite   DBDriver = "sqlite"
	DBDriverPostgres DBDriver = "postgres"
)

type DBConfig struct {
	Driver DBDriver `mapstructure:"driver"`
	// DSN is used by the postgres driver.
	DSN string `mapstructure:"dsn"`
	// Path is the sqlite database file; ":memory:" keeps everything in process.
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type ProjectionConfig struct {
	Dir string `mapstructure:"dir"`
	// ActivityLimit caps the activities snapshot to the newest N entries.
	ActivityLimit int `mapstructure:"activity_limit"`
}

type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	Issuer       string        `mapstructure:"issuer"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	SeedEmail    string        `mapstructure:"seed_email"`
	SeedPassword string        `mapstructure:"seed_password"`
	SeedName     string        `mapstructure:"seed_name"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Config struct {
	Env         Env              `mapstructure:"env"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DBConfig         `mapstructure:"database"`
	Projection  ProjectionConfig `mapstructure:"projection"`
	Auth        AuthConfig       `mapstructure:"auth"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	MetricsAddr string           `mapstructure:"metrics_addr"`
}

func (c *Config) IsProd() bool { return c != nil && c.Env == EnvProd }

func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port) }

// Validate rejects configurations the service cannot safely start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DBDriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DBDriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver: %q", c.Database.Driver)
	}
	if c.Projection.Dir == "" {
		return fmt.Errorf("projection.dir is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.IsProd() && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be overridden in prod")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

const defaultJWTSecret = "tristar-dev-secret"

func New() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 6868)
	v.SetDefault("database.driver", string(DBDriverSQLite))
	v.SetDefault("database.path", "data/tristar.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("projection.dir", "data/projections")
	v.SetDefault("projection.activity_limit", 500)
	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.issuer", "tristar-fitness")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.seed_email", "manager@tristar")
	v.SetDefault("auth.seed_password", "manager@tristarfitness")
	v.SetDefault("auth.seed_name", "Manager")
	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("metrics_addr", ":9090")
}

var Module = fx.Options(
	fx.Provide(New),
)
