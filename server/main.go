package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagedoor/api/routes"
	"stagedoor/internal/notifications"
	"stagedoor/internal/payments"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/database"
	"stagedoor/internal/shared/middleware"
	"stagedoor/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	} else {
		appLogger.Info("Loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Payment gateway
	var gateway payments.Gateway
	if cfg.Stripe.Enabled {
		gateway, err = payments.NewStripeGateway(cfg.Stripe)
		if err != nil {
			appLogger.Error("failed to initialize payment gateway", slog.Any("error", err))
			os.Exit(1)
		}
		appLogger.Info("Stripe gateway initialized", slog.String("currency", cfg.Stripe.Currency))
	} else {
		gateway = payments.NewDisabledGateway()
		appLogger.Warn("Payments disabled; only free checkout will work")
	}

	// Ticket email pipeline. With Kafka enabled, finalization publishes a
	// message and consumer workers deliver the mail; without it the mail
	// is sent inline.
	mailer := buildMailer(cfg, appLogger)
	notifier, stopNotifications := buildNotifier(cfg, mailer, appLogger)
	defer stopNotifications()

	engine := setupEngine(cfg, appLogger)
	appRouter := routes.NewRouter(cfg, db, gateway, notifier)
	appRouter.SetupRoutes(engine)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Box office running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", Version),
			slog.Bool("payments", cfg.Stripe.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func buildMailer(cfg *config.Config, appLogger *logger.Logger) notifications.EmailService {
	if cfg.Email.SMTPHost == "" {
		appLogger.Warn("No SMTP host configured; ticket emails will only be logged")
		return notifications.NewLogEmailService()
	}

	mailer, err := notifications.NewSMTPEmailService(cfg.Email)
	if err != nil {
		appLogger.Error("failed to initialize SMTP mailer", slog.Any("error", err))
		return notifications.NewLogEmailService()
	}
	return mailer
}

func buildNotifier(cfg *config.Config, mailer notifications.EmailService, appLogger *logger.Logger) (payments.Notifier, func()) {
	if !cfg.Kafka.Enabled {
		return notifications.NewDirectNotifier(mailer), func() {}
	}

	producer, err := notifications.NewKafkaProducer(cfg.Kafka)
	if err != nil {
		appLogger.Error("failed to initialize Kafka producer, falling back to direct delivery", slog.Any("error", err))
		return notifications.NewDirectNotifier(mailer), func() {}
	}

	consumer, err := notifications.NewKafkaConsumer(cfg.Kafka, mailer)
	if err != nil {
		appLogger.Error("failed to initialize Kafka consumer", slog.Any("error", err))
		return notifications.NewQueueNotifier(producer), func() {
			producer.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := consumer.Start(ctx, cfg.Kafka.ConsumerWorkers); err != nil {
		appLogger.Error("failed to start Kafka consumer", slog.Any("error", err))
	}
	appLogger.Info("Kafka notification pipeline started",
		slog.String("topic", cfg.Kafka.TicketTopic),
		slog.Int("workers", cfg.Kafka.ConsumerWorkers),
	)

	return notifications.NewQueueNotifier(producer), func() {
		cancel()
		if err := consumer.Stop(); err != nil {
			appLogger.Error("error stopping Kafka consumer", slog.Any("error", err))
		}
		if err := producer.Close(); err != nil {
			appLogger.Error("error closing Kafka producer", slog.Any("error", err))
		}
	}
}

func setupEngine(cfg *config.Config, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestLogger(appLogger), middleware.Recovery(appLogger))

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return engine
}
