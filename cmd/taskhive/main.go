package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appauth "github.com/kaveeshanethruwan/taskhive/internal/application/auth"
	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	apptask "github.com/kaveeshanethruwan/taskhive/internal/application/task"
	appuser "github.com/kaveeshanethruwan/taskhive/internal/application/user"
	"github.com/kaveeshanethruwan/taskhive/internal/config"
	infraauth "github.com/kaveeshanethruwan/taskhive/internal/infrastructure/auth"
	httprouter "github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/handlers"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/middleware"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/persistence/memory"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/persistence/postgres"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/security"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	var userStore ports.UserStore
	var taskStore ports.TaskStore
	if cfg.Database.URL != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		userStore = postgres.NewUserRepository(pool)
		taskStore = postgres.NewTaskRepository(pool)
	} else {
		log.Warn().Msg("DATABASE_URL not set; using in-memory stores")
		userStore = memory.NewUserStore()
		taskStore = memory.NewTaskStore()
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	passwordHasher := security.NewBcryptHasher(cfg.Bcrypt.Cost)
	refreshHasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})
	codec, err := infraauth.NewTokenCodec(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Second,
		time.Duration(cfg.JWT.RefreshExpiry)*time.Second,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create token codec")
	}

	var fileStore ports.FileStore
	if cfg.S3.Bucket != "" {
		fileStore, err = storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("create s3 store")
		}
	} else {
		log.Warn().Msg("S3_BUCKET not set; CSV archival disabled")
		fileStore = storage.NewNoopStore()
	}

	session := appauth.NewSession(userStore, refreshHasher, codec)
	loginUC := appauth.NewLogin(userStore, passwordHasher, session)
	refreshUC := appauth.NewRefresh(userStore, refreshHasher, session)
	userSvc := appuser.NewService(userStore, passwordHasher)
	taskSvc := apptask.NewService(taskStore)
	csvImporter := apptask.NewCSVImporter(taskStore, fileStore, log)

	gate := middleware.NewGate(codec, userStore)
	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(loginUC, refreshUC, session, log),
		UsersHandler:   handlers.NewUsersHandler(userSvc, log),
		TasksHandler:   handlers.NewTasksHandler(taskSvc, csvImporter, log),
		HealthHandler:  handlers.NewHealthHandler(pool, redisClient),
		RequireAccess:  gate.RequireAccess,
		RequireRefresh: gate.RequireRefresh,
		Log:            log,
		Secure:         secureMiddleware,
		IPRateLimit:    ipLimit,
		Metrics:        true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
