// @title                       Service Marketplace API
// @version                     1.0
// @description                 REST API for posting services, applying to them, reviews and moderation.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/servicehub/marketplace/internal/api"
	"github.com/servicehub/marketplace/internal/core/ports"
	"github.com/servicehub/marketplace/internal/core/service"
	"github.com/servicehub/marketplace/internal/infrastructure/db/memory"
	"github.com/servicehub/marketplace/internal/infrastructure/db/mongo"
	"github.com/servicehub/marketplace/internal/infrastructure/db/redis"
	"github.com/servicehub/marketplace/internal/infrastructure/http/handlers"
	"github.com/servicehub/marketplace/internal/infrastructure/queue"
	"github.com/servicehub/marketplace/internal/infrastructure/ws"
	"github.com/servicehub/marketplace/internal/pkg/config"
	"github.com/servicehub/marketplace/internal/pkg/token"
	"github.com/servicehub/marketplace/pkg/logger"
)

// repositories groups one storage backend's adapters.
type repositories struct {
	users         ports.UserRepository
	services      ports.ServiceRepository
	categories    ports.CategoryRepository
	reviews       ports.ReviewRepository
	applications  ports.ApplicationRepository
	notifications ports.NotificationRepository
	reports       ports.ReportRepository
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		l := logger.Get()
		l.Warn().Err(err).Msg("could not read .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.New(logger.Options{})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		repos  repositories
		checks []handlers.Check
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		repos = memoryRepositories(memory.NewStore())
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return err
		}
		defer disconnectMongo(client, log)

		var indexers []mongo.Indexer
		repos, indexers = mongoRepositories(db)
		if err := mongo.EnsureIndexes(ctx, indexers...); err != nil {
			return err
		}
		checks = append(checks, handlers.MongoCheck(db))
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	// a nil interface disables revocation; never assign a typed nil here
	var revoker ports.TokenRevoker
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		revoker = redis.NewDenylist(rdb)
		checks = append(checks, handlers.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		log.Warn().Msg("redis disabled, logout will not revoke tokens")
	}

	hasher := queue.NewHasherPool(cfg.Auth.HashWorkers, cfg.Auth.BcryptCost, log)
	defer hasher.Close()

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	hub := ws.NewHub(log, cfg.CORSOrigins)
	defer hub.Close()

	notifications := service.NewNotificationService(repos.notifications, hub, log)
	categories := service.NewCategoryService(repos.categories, log)

	if cfg.SeedCategories {
		n, err := categories.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int("count", n).Msg("seeded default categories")
		}
	}

	e := api.NewRouter(api.Deps{
		Logger:        log,
		CORSOrigins:   cfg.CORSOrigins,
		Tokens:        tokens,
		Revoker:       revoker,
		Auth:          service.NewAuthService(repos.users, hasher, tokens, revoker, log),
		Catalog:       service.NewCatalogService(repos.services, repos.reviews, repos.applications, log),
		Categories:    categories,
		Reviews:       service.NewReviewService(repos.reviews, repos.services, log),
		Users:         service.NewUserService(repos.users, log),
		Applications:  service.NewApplicationService(repos.applications, repos.services, notifications, log),
		Notifications: notifications,
		Reports:       service.NewReportService(repos.reports, repos.users, log),
		Stream:        hub,
		Checks:        checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// websocket connections are hijacked and not tracked by Shutdown
	hub.Close()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func memoryRepositories(s *memory.Store) repositories {
	return repositories{
		users:         memory.NewUserRepository(s),
		services:      memory.NewServiceRepository(s),
		categories:    memory.NewCategoryRepository(s),
		reviews:       memory.NewReviewRepository(s),
		applications:  memory.NewApplicationRepository(s),
		notifications: memory.NewNotificationRepository(s),
		reports:       memory.NewReportRepository(s),
	}
}

func mongoRepositories(db *mongodriver.Database) (repositories, []mongo.Indexer) {
	users := mongo.NewUserRepository(db)
	services := mongo.NewServiceRepository(db)
	categories := mongo.NewCategoryRepository(db)
	reviews := mongo.NewReviewRepository(db)
	applications := mongo.NewApplicationRepository(db)
	notifications := mongo.NewNotificationRepository(db)
	reports := mongo.NewReportRepository(db)

	repos := repositories{
		users:         users,
		services:      services,
		categories:    categories,
		reviews:       reviews,
		applications:  applications,
		notifications: notifications,
		reports:       reports,
	}
	return repos, []mongo.Indexer{users, services, categories, reviews, applications, notifications, reports}
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
