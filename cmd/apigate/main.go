package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldops/apigate/pkg/config"
	httpHandlers "github.com/fieldops/apigate/pkg/handlers/http"
	"github.com/fieldops/apigate/pkg/infra/auditlogs"
	"github.com/fieldops/apigate/pkg/infra/auth"
	"github.com/fieldops/apigate/pkg/infra/metrics"
	"github.com/fieldops/apigate/pkg/infra/repository"
	"github.com/fieldops/apigate/pkg/infra/trust"
	"github.com/fieldops/apigate/pkg/middleware"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/fieldops/apigate/pkg/server"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := config.Load("./config"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger := newLogger(cfg)

	classes, err := ratelimit.NewClassSet(cfg.Limits)
	if err != nil {
		logger.WithError(err).Fatal("invalid limit class configuration")
	}
	aggregateClass, err := classes.Get(ratelimit.ClassCompanyAggregate)
	if err != nil {
		logger.WithError(err).Fatal("company aggregate class missing")
	}

	store, redisClient := newCounterStore(cfg, logger)
	limiter := ratelimit.NewLimiter(store, logger, nil)
	combined := ratelimit.NewCombinedLimiter(limiter, aggregateClass)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	profileLoader := repository.NewProfileRepository(db)

	sessionResolver := auth.NewSessionResolver(&cfg.Server)
	trustChecker := trust.NewChecker(logger, cfg.Trust)

	metricsWorker := metrics.NewWorker(logger, metrics.NewLogSink(logger), cfg.Metrics.Workers)

	auditExporter, err := newAuditExporter(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize audit exporter")
	}
	auditService := auditlogs.NewService(auditExporter, logger, cfg.Audit.Enabled)

	transport := middleware.Transport{
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(nil),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(logger, metricsWorker),
		RecoverMiddleware:   middleware.NewPanicRecoverMiddleware(logger, cfg.Server.IsProduction()),
		TrustMiddleware:     middleware.NewTrustMiddleware(logger, trustChecker),
		RateLimitMiddleware: middleware.NewRateLimitMiddleware(logger, limiter, combined),
		AuthMiddleware:      middleware.NewAuthMiddleware(logger, sessionResolver, profileLoader),
		AuthorizeMiddleware: middleware.NewAuthorizeMiddleware(logger),
		AuditMiddleware:     middleware.NewAuditMiddleware(logger, auditService),
	}
	pipeline := middleware.NewPipeline(transport, classes)

	srv := server.NewAdmissionServer(server.AdmissionServerDI{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
		HandlerTransport: httpHandlers.HandlerTransport{
			WhoAmIHandler:  httpHandlers.NewWhoAmIHandler(logger),
			VersionHandler: httpHandlers.NewVersionHandler(),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(srv.Run)
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
		metricsWorker.Shutdown()
		if err := auditService.Close(); err != nil {
			logger.WithError(err).Error("audit service close failed")
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.WithError(err).Error("redis close failed")
			}
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Fatal("server exited with error")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// newCounterStore picks the counter backend. Without Redis the limiter runs
// on the in-process store: correct for a single instance, per-instance (and
// therefore multiplied by the instance count) when scaled out.
func newCounterStore(cfg *config.Config, logger *logrus.Logger) (ratelimit.CounterStore, *redis.Client) {
	if cfg.Redis.Host == "" {
		logger.Warn("no redis configured, rate limits are per instance")
		return ratelimit.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := ratelimit.NewBreakerStore(
		ratelimit.NewRedisStore(client),
		"ratelimit-redis",
		30*time.Second,
		5,
	)
	return store, client
}

func newAuditExporter(cfg *config.Config, logger *logrus.Logger) (auditlogs.Exporter, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	switch cfg.Audit.Exporter {
	case "kafka":
		return auditlogs.NewKafkaExporter(cfg.Audit.Kafka)
	default:
		return auditlogs.NewLogExporter(logger), nil
	}
}
