package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/account-api/internal/adapter/handler"
	"github.com/marcos-nsantos/account-api/internal/adapter/notification"
	"github.com/marcos-nsantos/account-api/internal/adapter/repository"
	"github.com/marcos-nsantos/account-api/internal/adapter/repository/postgres"
	redisrepo "github.com/marcos-nsantos/account-api/internal/adapter/repository/redis"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/auth"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/cache"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/config"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/database"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/messaging"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/observability"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/server"
	"github.com/marcos-nsantos/account-api/internal/usecase/account"
)

//	@title						Account API
//	@version					1.0
//	@description				User signup, login and profile management.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, zap.String("service", "api"))
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(pool)

	var sessionRepo repository.SessionRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		sessionRepo = redisrepo.NewSessionRepo(redisClient)
	} else {
		logger.Warn("redis disabled, access tokens cannot be revoked before they expire")
	}

	// Notifications
	var notifier account.NotificationSink
	if cfg.RabbitMQ.Enabled {
		queue, err := messaging.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.EmailQueue)
		if err != nil {
			logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer func() { _ = queue.Close() }()
		notifier = notification.NewQueueSink(queue)
	} else {
		logger.Info("rabbitmq disabled, no welcome emails will be queued")
	}

	// Infrastructure services
	jwtSvc := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.Issuer)
	passwordHasher := auth.NewPasswordHasher(cfg.Account.PasswordHashCost)

	// Use cases
	accountSvc := account.NewService(userRepo, sessionRepo, passwordHasher, jwtSvc, notifier, logger, account.Options{
		TokenTTL:              cfg.JWT.TTL(),
		VerifyCurrentPassword: cfg.Account.VerifyCurrentPassword,
		NotifyTimeout:         cfg.Account.NotifyTimeout,
	})

	router := server.NewRouter(server.RouterConfig{
		AccountHandler: handler.NewAccountHandler(accountSvc),
		AuthMiddleware: middleware.NewAuthMiddleware(accountSvc),
		Logger:         logger,
		Environment:    cfg.Server.Environment,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := server.NewServer(server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Handler:         router.Engine(),
		Logger:          logger,
	})

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}

	accountSvc.Wait()
	logger.Info("server stopped")
}
