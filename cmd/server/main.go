package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"daydreams-server/internal/config"
	"daydreams-server/internal/configservice"
	"daydreams-server/internal/database"
	"daydreams-server/internal/deck"
	"daydreams-server/internal/handler"
	"daydreams-server/internal/logger"
	"daydreams-server/internal/messaging"
	"daydreams-server/internal/middleware"
	"daydreams-server/internal/repository"
	"daydreams-server/internal/service"
	"daydreams-server/internal/worker"
	"daydreams-server/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// PostgreSQL
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbPool, err := database.NewPool(ctx, database.PoolConfig{
		DSN:         cfg.GetDSN(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	})
	cancel()
	if err != nil {
		zapLogger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	zapLogger.Info("Connected to PostgreSQL")

	if err := database.ApplyMigrations(dbPool); err != nil {
		zapLogger.Fatal("Не удалось применить миграции", zap.Error(err))
	}
	zapLogger.Info("Database migrations applied")

	// Redis (состояние колоды)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer redisClient.Close()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		zapLogger.Fatal("Не удалось подключиться к Redis", zap.Error(err))
	}
	pingCancel()
	zapLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))

	// RabbitMQ
	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("Не удалось подключиться к RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()
	zapLogger.Info("Connected to RabbitMQ")

	pushPublisher, err := messaging.NewRabbitMQPushPublisher(rabbitConn, cfg.PushQueueName, zapLogger)
	if err != nil {
		zapLogger.Fatal("Не удалось создать push publisher", zap.Error(err))
	}

	// Репозитории
	promptRepo := repository.NewPgPromptRepository(zapLogger)
	mirrorRepo := repository.NewPgMirrorRepository(zapLogger)
	partnerRepo := repository.NewPgPartnershipRepository(zapLogger)
	settingsRepo := repository.NewPgSettingsRepository(zapLogger)
	dynamicConfigRepo := repository.NewPgDynamicConfigRepository(zapLogger)
	deviceTokenRepo := repository.NewPgDeviceTokenRepository(dbPool, zapLogger)
	deckStateRepo := repository.NewRedisDeckStateRepository(redisClient, zapLogger)
	txManager := repository.NewTxManager(dbPool, zapLogger)

	// Динамическая конфигурация из БД
	cfgService, err := configservice.NewConfigService(dynamicConfigRepo, dbPool, zapLogger)
	if err != nil {
		zapLogger.Fatal("Не удалось загрузить динамические конфигурации", zap.Error(err))
	}

	// Websocket-менеджер
	wsManager := ws.NewManager(zapLogger)
	go wsManager.Run()

	// Сервисы
	deckBuilder := deck.NewBuilder(deck.DefaultCatalog())
	promptService := service.NewDailyPromptService(
		dbPool, txManager, promptRepo, mirrorRepo, partnerRepo, settingsRepo,
		deckStateRepo, deckBuilder, pushPublisher, wsManager, cfgService, zapLogger)
	storyService := service.NewStoryService(
		dbPool, txManager, promptRepo, mirrorRepo, partnerRepo, pushPublisher, wsManager, zapLogger)
	partnershipService := service.NewPartnershipService(
		dbPool, txManager, partnerRepo, settingsRepo, pushPublisher, wsManager, zapLogger)
	settingsService := service.NewSettingsService(
		dbPool, partnerRepo, settingsRepo, deckStateRepo, deck.DefaultCatalog(), zapLogger)
	deviceTokenService := service.NewDeviceTokenService(deviceTokenRepo, zapLogger)

	// Шедулер дневных напоминаний
	reminderScheduler := worker.NewReminderScheduler(
		dbPool, settingsRepo, partnerRepo, promptRepo, pushPublisher, cfgService,
		cfg.ReminderCheckInterval, zapLogger)
	reminderScheduler.Start()

	// HTTP
	apiHandler := handler.NewAPIHandler(
		promptService, storyService, partnershipService, settingsService,
		deviceTokenService, cfgService, wsManager, cfg.JWTSecret, zapLogger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.EchoZapLogger(zapLogger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	apiHandler.RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()
	zapLogger.Info("Server listening", zap.String("port", cfg.Port))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutdown signal received, stopping...")

	reminderScheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Ошибка при graceful shutdown Echo", zap.Error(err))
	}

	zapLogger.Info("Server stopped")
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками.
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
