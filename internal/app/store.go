package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/utafrali/swagshop/internal/config"
	"github.com/utafrali/swagshop/internal/repository"
	mongorepo "github.com/utafrali/swagshop/internal/repository/mongo"
	"github.com/utafrali/swagshop/internal/repository/postgres"
	redisrepo "github.com/utafrali/swagshop/internal/repository/redis"
	"github.com/utafrali/swagshop/migrations"
	"github.com/utafrali/swagshop/pkg/database"
	"github.com/utafrali/swagshop/pkg/health"
)

// store bundles the repositories of the selected driver with its health
// check and shutdown hook.
type store struct {
	driver    string
	products  repository.ProductRepository
	wishLists repository.WishListRepository
	ping      health.Checker
	close     func(ctx context.Context) error
}

// openStore connects to the backing store named by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, logger)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreRedis:
		return openRedis(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	mongoCfg := cfg.MongoConfig()
	registerCollector(database.MongoPoolEvents(), logger)

	client, err := database.NewMongoClient(ctx, mongoCfg, database.MongoPoolMonitor(config.ServiceName), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	logger.Info("connected to MongoDB", slog.String("database", mongoCfg.Database))

	db := client.Database(mongoCfg.Database)
	return &store{
		driver:    config.StoreMongo,
		products:  mongorepo.NewProductRepository(db),
		wishLists: mongorepo.NewWishListRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", pgCfg.Host),
		slog.Int("port", pgCfg.Port),
		slog.String("database", pgCfg.DBName),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	registerCollector(database.NewPgxPoolCollector(pool, config.ServiceName), logger)

	return &store{
		driver:    config.StorePostgres,
		products:  postgres.NewProductRepository(pool),
		wishLists: postgres.NewWishListRepository(pool),
		ping:      pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	redisCfg := cfg.RedisConfig()
	client, err := database.NewRedisClient(ctx, redisCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", redisCfg.Addr), slog.Int("db", redisCfg.DB))

	registerCollector(database.NewRedisPoolCollector(client, config.ServiceName), logger)

	return &store{
		driver:    config.StoreRedis,
		products:  redisrepo.NewProductRepository(client),
		wishLists: redisrepo.NewWishListRepository(client),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		close: func(context.Context) error {
			return client.Close()
		},
	}, nil
}

// registerCollector registers c with the default registry. A collector that
// is already registered is left in place.
func registerCollector(c prometheus.Collector, logger *slog.Logger) {
	err := prometheus.Register(c)
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		logger.Warn("failed to register metrics collector", slog.String("error", err.Error()))
	}
}
