package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-locator-shopify-layer/internal/ports"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

const pingTimeout = 5 * time.Second

// FactoryConfig selects and configures the storage backends
type FactoryConfig struct {
	StorageBackend string
	SessionBackend string
	RunMigrations  bool

	MongoURI      string
	MongoDatabase string
	PostgresDSN   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Stores holds the repositories chosen by the factory and closes their connections
type Stores struct {
	Settings ports.SettingsRepository
	Stores   ports.StoreRepository
	Sessions ports.SessionRepository

	closers []func(context.Context) error
}

// Close releases every backend connection opened by the factory
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewStores opens the configured storage and session backends
func NewStores(ctx context.Context, cfg FactoryConfig) (*Stores, error) {
	stores := &Stores{}
	var memory *MemoryRepository
	var mongoDB *mongo.Database

	switch backend := normalizeBackend(cfg.StorageBackend, BackendMongo); backend {
	case BackendMemory:
		memory = NewMemoryRepository()
		stores.Settings = memory
		stores.Stores = memory

	case BackendMongo:
		db, err := stores.openMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		mongoDB = db

		settingsRepo := NewMongoSettingsRepository(db)
		storeRepo := NewMongoStoreRepository(db)
		if cfg.RunMigrations {
			if err := settingsRepo.EnsureIndexes(ctx); err != nil {
				_ = stores.Close(ctx)
				return nil, err
			}
			if err := storeRepo.EnsureIndexes(ctx); err != nil {
				_ = stores.Close(ctx)
				return nil, err
			}
		}
		stores.Settings = settingsRepo
		stores.Stores = storeRepo

	case BackendPostgres:
		db, err := stores.openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.RunMigrations {
			if err := ApplyMigrations(ctx, db); err != nil {
				_ = stores.Close(ctx)
				return nil, err
			}
		}
		stores.Settings = NewPostgresSettingsRepository(db)
		stores.Stores = NewPostgresStoreRepository(db)

	default:
		return nil, fmt.Errorf("unknown storage backend %q (use memory, mongo or postgres)", backend)
	}

	switch backend := normalizeBackend(cfg.SessionBackend, BackendRedis); backend {
	case BackendMemory:
		if memory == nil {
			memory = NewMemoryRepository()
		}
		stores.Sessions = memory

	case BackendMongo:
		if mongoDB == nil {
			db, err := stores.openMongo(ctx, cfg)
			if err != nil {
				_ = stores.Close(ctx)
				return nil, err
			}
			mongoDB = db
		}
		stores.Sessions = NewMongoSessionRepository(mongoDB)

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			_ = stores.Close(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		stores.closers = append(stores.closers, func(context.Context) error { return client.Close() })
		stores.Sessions = NewRedisSessionRepository(client)

	default:
		_ = stores.Close(ctx)
		return nil, fmt.Errorf("unknown session backend %q (use memory, mongo or redis)", backend)
	}

	return stores, nil
}

func normalizeBackend(backend string, fallback string) string {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		return fallback
	}
	return backend
}

func (s *Stores) openMongo(ctx context.Context, cfg FactoryConfig) (*mongo.Database, error) {
	if strings.TrimSpace(cfg.MongoDatabase) == "" {
		return nil, errors.New("mongo database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s.closers = append(s.closers, client.Disconnect)
	return client.Database(cfg.MongoDatabase), nil
}

func (s *Stores) openPostgres(ctx context.Context, cfg FactoryConfig) (*sql.DB, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("postgres dsn is required when storage backend is postgres")
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s.closers = append(s.closers, func(context.Context) error { return db.Close() })
	return db, nil
}
