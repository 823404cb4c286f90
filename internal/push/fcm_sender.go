package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fcm "firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"daydreams-server/internal/config"
	"daydreams-server/internal/models"
)

// --- Заглушка для FCM Sender ---

type stubFCMSender struct {
	logger *zap.Logger
}

// NewStubFCMSender создает FCM sender, который только логирует отправку.
func NewStubFCMSender(logger *zap.Logger) PlatformSender {
	return &stubFCMSender{logger: logger.Named("StubFCMSender")}
}

func (s *stubFCMSender) Send(ctx context.Context, tokens []string, notification models.PushNotification, data map[string]string) error {
	s.logger.Info("STUB: FCM send",
		zap.Int("tokens", len(tokens)),
		zap.String("title", notification.Title),
		zap.Any("data", data))
	return nil
}

func (s *stubFCMSender) Platform() string {
	return "android"
}

// --- Реальный FCM Sender ---

type fcmSender struct {
	client *fcm.Client
	logger *zap.Logger
}

// NewFCMSender создает отправитель FCM по ключу сервис-аккаунта Firebase.
// Возвращает (nil, nil), если путь к ключу не задан.
func NewFCMSender(cfg config.FCMConfig, logger *zap.Logger) (PlatformSender, error) {
	if cfg.CredentialsPath == "" {
		logger.Warn("FCM credentials path is not set, FCM sender disabled")
		return nil, nil
	}

	opts := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(context.Background(), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Firebase App из файла '%s': %w", cfg.CredentialsPath, err)
	}

	messagingClient, err := app.Messaging(context.Background())
	if err != nil {
		return nil, fmt.Errorf("ошибка получения FCM Messaging client: %w", err)
	}

	logger.Info("FCM sender initialized", zap.String("credentials_path", cfg.CredentialsPath))
	return &fcmSender{
		client: messagingClient,
		logger: logger.Named("FCMSender"),
	}, nil
}

func (s *fcmSender) Send(ctx context.Context, tokens []string, notification models.PushNotification, data map[string]string) error {
	// SDK принимает до 500 токенов на Multicast-сообщение. У пары
	// пользователей устройств единицы, батчинг не нужен.
	message := &fcm.MulticastMessage{
		Tokens: tokens,
		Notification: &fcm.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: data,
		Android: &fcm.AndroidConfig{
			Priority: "high",
		},
	}

	br, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("ошибка отправки FCM: %w", err)
	}

	s.logger.Debug("FCM batch result",
		zap.Int("success_count", br.SuccessCount),
		zap.Int("failure_count", br.FailureCount))

	if br.FailureCount > 0 {
		invalidTokens := make([]string, 0)
		for idx, resp := range br.Responses {
			if resp.Success {
				continue
			}
			token := "unknown"
			if idx < len(tokens) {
				token = tokens[idx]
			}
			if fcm.IsUnregistered(resp.Error) || fcm.IsSenderIDMismatch(resp.Error) || fcm.IsInvalidArgument(resp.Error) {
				invalidTokens = append(invalidTokens, token)
				s.logger.Warn("Stale FCM token", zap.Error(resp.Error))
			} else {
				s.logger.Error("FCM delivery error", zap.Error(resp.Error))
			}
		}
		if len(invalidTokens) > 0 {
			s.logger.Info("Stale FCM tokens detected", zap.Int("count", len(invalidTokens)))
		}
		return fmt.Errorf("ошибка доставки %d из %d FCM сообщений", br.FailureCount, len(tokens))
	}
	return nil
}

func (s *fcmSender) Platform() string {
	return "android"
}
