package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-health/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-health/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-health/internal/config"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
	"github.com/comitanigiacomo/kanso-health/internal/core/workers"
)

type storage struct {
	db         *sqlx.DB
	users      domain.UserRepository
	water      domain.WaterRepository
	sleep      domain.SleepRepository
	activity   domain.ActivityRepository
	items      domain.CustomItemRepository
	categories domain.CategoryRepository
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage.Backend == config.BackendMemory {
		return &storage{
			users:      repository.NewInMemoryUserRepository(),
			water:      repository.NewInMemoryRecordRepository[domain.WaterRecord, *domain.WaterRecord](),
			sleep:      repository.NewInMemoryRecordRepository[domain.SleepRecord, *domain.SleepRecord](),
			activity:   repository.NewInMemoryRecordRepository[domain.ActivityRecord, *domain.ActivityRecord](),
			items:      repository.NewInMemoryRecordRepository[domain.CustomItem, *domain.CustomItem](),
			categories: repository.NewInMemoryCategoryRepository(),
		}, nil
	}

	db, err := repository.Open(ctx, cfg.DB.DSN(), cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.ConnMaxLifetime)
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &storage{
		db:         db,
		users:      repository.NewPostgresUserRepository(db),
		water:      repository.NewPostgresWaterRepository(db),
		sleep:      repository.NewPostgresSleepRepository(db),
		activity:   repository.NewPostgresActivityRepository(db),
		items:      repository.NewPostgresCustomItemRepository(db),
		categories: repository.NewPostgresCategoryRepository(db),
	}, nil
}

// withCache puts the Redis list cache in front of the record repositories.
func (s *storage) withCache(rdb *redis.Client) {
	s.water = repository.NewCachedRecordRepository(s.water, rdb, "water")
	s.sleep = repository.NewCachedRecordRepository(s.sleep, rdb, "sleep")
	s.activity = repository.NewCachedRecordRepository(s.activity, rdb, "activity")
}

type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	store   *storage
	redis   *redis.Client
	streaks *workers.StreakWorker
	handler http.Handler
}

// newApp wires storage, cache, services and the HTTP router. The streak
// worker runs until ctx is cancelled.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("backend", cfg.Storage.Backend).Msg("storage ready")

	if cfg.Storage.SeedFile != "" {
		seed, err := repository.LoadSeed(cfg.Storage.SeedFile)
		if err != nil {
			store.close()
			return nil, err
		}
		created, err := repository.Seed(ctx, seed, store.users, store.categories)
		if err != nil {
			store.close()
			return nil, err
		}
		logger.Info().Int("users", created).Str("file", cfg.Storage.SeedFile).Msg("seed applied")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, running without cache and rate limiting")
			rdb = nil
		} else {
			store.withCache(rdb)
		}
	}

	streaks := workers.NewStreakWorker(store.users, store.water, workers.StreakOptions{
		GoalMl:   cfg.Goals.WaterMl,
		Location: loc,
		Logger:   logger,
	})
	streaks.Start(ctx)

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, store.users)
	categoryService := services.NewCategoryService(store.categories, store.items)
	summaryService := services.NewSummaryService(services.SummaryConfig{
		Users:      store.users,
		Water:      store.water,
		Sleep:      store.sleep,
		Activity:   store.activity,
		Categories: categoryService,
		Goals:      cfg.Goals,
		Location:   loc,
	})

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(services.NewAuthService(store.users), tokenService),
		UserHandler:     adapterHTTP.NewUserHandler(services.NewUserService(store.users)),
		WaterHandler:    adapterHTTP.NewWaterHandler(services.NewRecordService[*domain.WaterRecord](store.water, streaks), summaryService),
		SleepHandler:    adapterHTTP.NewSleepHandler(services.NewRecordService[*domain.SleepRecord](store.sleep, nil), summaryService),
		ActivityHandler: adapterHTTP.NewActivityHandler(services.NewRecordService[*domain.ActivityRecord](store.activity, nil), summaryService),
		CategoryHandler: adapterHTTP.NewCategoryHandler(categoryService, summaryService),
		StatsHandler:    adapterHTTP.NewStatsHandler(summaryService),
		TokenService:    tokenService,
		DB:              store.db,
		Redis:           rdb,
		Logger:          logger,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.RateLimit,
		StartTime:       time.Now(),
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		redis:   rdb,
		streaks: streaks,
		handler: router,
	}, nil
}

func (s *storage) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Close releases connections. Call it after the context given to newApp is done.
func (a *app) Close() error {
	<-a.streaks.Done()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
	}
	a.store.close()
	return nil
}
