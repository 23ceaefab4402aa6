package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	URL               string
	DefaultLocatorURL string
}

type StorageConfig struct {
	Backend       string
	RunMigrations bool
}

type MongoConfig struct {
	URI      string
	Database string
}

type PostgresConfig struct {
	DSN string
}

type SessionConfig struct {
	Backend string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ShopifyConfig struct {
	APIKey     string
	APISecret  string
	APIVersion string
}

type Config struct {
	Server         ServerConfig
	LogLevel       string
	App            AppConfig
	Storage        StorageConfig
	Mongo          MongoConfig
	Postgres       PostgresConfig
	Session        SessionConfig
	Redis          RedisConfig
	Shopify        ShopifyConfig
	EncryptionKey  string
	AllowedOrigins []string
}

func (c Config) String() string {
	return fmt.Sprintf(
		"Port: %s | LogLevel: %s | AppURL: %s | Storage: %s | Sessions: %s | ShopifyAPIVersion: %s",
		c.Server.Port,
		c.LogLevel,
		c.App.URL,
		c.Storage.Backend,
		c.Session.Backend,
		c.Shopify.APIVersion,
	)
}

const CONFIG_FILE_PATH = "./config.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("app.url", "http://localhost:8080")
	v.SetDefault("app.default_locator_url", "https://{shop}.myshopify.com/pages/store-locator")
	v.SetDefault("storage.backend", "mongo")
	v.SetDefault("storage.run_migrations", false)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "store_locator")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("session.backend", "redis")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("shopify.api_version", "2025-01")
	v.SetDefault("cors.allowed_origins", "*")
}

// Load reads .env, the optional YAML file and the environment, in increasing precedence.
// A missing config file is not an error.
func Load(configFilePath string, logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg(".env file not found")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := CONFIG_FILE_PATH
	if configFilePath != "" {
		configFile = configFilePath
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		if configFilePath != "" {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		logger.Debug().Str("file", configFile).Msg("No config file, using defaults and environment")
	}

	v.BindEnv("server.port", "SERVER_PORT", "PORT")
	v.BindEnv("app.url", "APP_URL", "SHOPIFY_APP_URL")
	v.BindEnv("mongo.uri", "MONGODB_URI")
	v.BindEnv("mongo.database", "MONGODB_DATABASE")
	v.BindEnv("encryption.key", "ENCRYPTION_KEY")

	cfg := &Config{
		Server:   ServerConfig{Port: v.GetString("server.port")},
		LogLevel: v.GetString("log.level"),
		App: AppConfig{
			URL:               strings.TrimRight(v.GetString("app.url"), "/"),
			DefaultLocatorURL: v.GetString("app.default_locator_url"),
		},
		Storage: StorageConfig{
			Backend:       v.GetString("storage.backend"),
			RunMigrations: v.GetBool("storage.run_migrations"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		Postgres: PostgresConfig{DSN: v.GetString("postgres.dsn")},
		Session:  SessionConfig{Backend: v.GetString("session.backend")},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Shopify: ShopifyConfig{
			APIKey:     v.GetString("shopify.api_key"),
			APISecret:  v.GetString("shopify.api_secret"),
			APIVersion: v.GetString("shopify.api_version"),
		},
		EncryptionKey:  v.GetString("encryption.key"),
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports missing or malformed required settings
func (c *Config) Validate() error {
	var missing []string
	if c.Shopify.APIKey == "" {
		missing = append(missing, "shopify.api_key")
	}
	if c.Shopify.APISecret == "" {
		missing = append(missing, "shopify.api_secret")
	}
	if c.EncryptionKey == "" {
		missing = append(missing, "encryption.key")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return errors.Wrap(err, "encryption.key must be hex encoded")
	}
	if len(key) != 32 {
		return errors.Errorf("encryption.key must be 32 bytes, got %d", len(key))
	}

	if c.Storage.Backend == "postgres" && c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required when storage.backend is postgres")
	}
	return nil
}

// Level parses the configured log level, falling back to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
