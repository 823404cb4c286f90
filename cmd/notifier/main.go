package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"daydreams-server/internal/config"
	"daydreams-server/internal/logger"
	"daydreams-server/internal/push"
	"daydreams-server/internal/repository"
)

func main() {
	cfg, err := config.LoadNotifierConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Encoding: "json",
	})
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer zapLogger.Sync()
	sugar := zapLogger.Sugar()
	sugar.Info("Логгер инициализирован", zap.String("logLevel", cfg.Log.Level))

	// Подключение к общей БД за токенами устройств
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbPool, err := pgxpool.New(dbCtx, cfg.Database.DSN)
	dbCancel()
	if err != nil {
		sugar.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()
	sugar.Info("Успешно подключено к PostgreSQL")

	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQ.URI, zapLogger)
	if err != nil {
		sugar.Fatalf("Не удалось подключиться к RabbitMQ: %v", err)
	}
	defer rabbitConn.Close()
	sugar.Info("Успешно подключено к RabbitMQ")

	deviceTokenRepo := repository.NewPgDeviceTokenRepository(dbPool, zapLogger)
	tokenProvider := push.NewDBTokenProvider(deviceTokenRepo, zapLogger)

	// Платформенные отправители: при неполной конфигурации заглушки
	fcmSender, err := push.NewFCMSender(cfg.FCM, zapLogger)
	if err != nil {
		sugar.Fatalf("Ошибка инициализации FCM Sender: %v", err)
	}
	if fcmSender == nil {
		sugar.Warn("FCM Sender не настроен, используется заглушка.")
		fcmSender = push.NewStubFCMSender(zapLogger)
	}

	apnsSender, err := push.NewApnsSender(cfg.APNS, zapLogger)
	if err != nil {
		sugar.Fatalf("Ошибка инициализации APNS Sender: %v", err)
	}
	if apnsSender == nil {
		sugar.Warn("APNS Sender не настроен, используется заглушка.")
		apnsSender = push.NewStubApnsSender(zapLogger)
	}

	notificationService := push.NewNotificationService(tokenProvider, zapLogger, fcmSender, apnsSender)
	processor := push.NewProcessor(zapLogger, notificationService)
	consumer, err := push.NewConsumer(rabbitConn, zapLogger, cfg.PushQueueName, cfg.WorkerConcurrency, processor)
	if err != nil {
		sugar.Fatalf("Не удалось создать консьюмера RabbitMQ: %v", err)
	}

	healthSrv := startHealthCheckServer(cfg.HealthCheckPort, zapLogger)

	consumerErrChan := make(chan error, 1)
	go func() {
		sugar.Info("Запуск консьюмера RabbitMQ...")
		err := consumer.Start()
		if err != nil {
			sugar.Errorf("Консьюмер RabbitMQ завершился с ошибкой: %v", err)
		}
		consumerErrChan <- err
	}()

	sugar.Info("Notifier запущен.")
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		sugar.Info("Получен сигнал завершения, начинаем остановку...")
	case err := <-consumerErrChan:
		if err != nil {
			sugar.Errorf("Консьюмер завершился с ошибкой, инициируем остановку: %v", err)
		}
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := healthSrv.Shutdown(ctxShutdown); err != nil {
		sugar.Errorf("Ошибка при остановке Health Check сервера: %v", err)
	}

	consumer.Stop()
	<-consumerErrChan

	sugar.Info("Notifier успешно остановлен.")
}

func startHealthCheckServer(port string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		logger.Info("Health check server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Ошибка запуска Health Check сервера", zap.Error(err))
		}
	}()

	return srv
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками.
func connectRabbitMQ(uri string, logger *zap.Logger) (*amqp.Connection, error) {
	var connection *amqp.Connection
	var err error
	maxRetries := 50
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		connection, err = amqp.Dial(uri)
		if err == nil {
			go func() {
				notifyClose := make(chan *amqp.Error)
				connection.NotifyClose(notifyClose)
				if closeErr := <-notifyClose; closeErr != nil {
					logger.Error("Соединение с RabbitMQ разорвано", zap.Error(closeErr))
				}
			}()
			return connection, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ, попытка переподключения...",
			zap.Error(err),
			zap.Int("retry", i+1),
			zap.Duration("delay", retryDelay),
		)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("не удалось подключиться к RabbitMQ после %d попыток: %w", maxRetries, err)
}
