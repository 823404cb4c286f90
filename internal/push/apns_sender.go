package push

import (
	"context"
	"fmt"
	"sync"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	"go.uber.org/zap"

	"daydreams-server/internal/config"
	"daydreams-server/internal/models"
)

// --- Заглушка для APNS Sender ---

type stubApnsSender struct {
	logger *zap.Logger
}

// NewStubApnsSender создает APNS sender, который только логирует отправку.
func NewStubApnsSender(logger *zap.Logger) PlatformSender {
	return &stubApnsSender{logger: logger.Named("StubApnsSender")}
}

func (s *stubApnsSender) Send(ctx context.Context, tokens []string, notification models.PushNotification, data map[string]string) error {
	s.logger.Info("STUB: APNS send",
		zap.Int("tokens", len(tokens)),
		zap.String("title", notification.Title),
		zap.Any("data", data))
	return nil
}

func (s *stubApnsSender) Platform() string {
	return "ios"
}

// --- Реальный APNS Sender ---

type apnsSender struct {
	client *apns2.Client
	logger *zap.Logger
	topic  string
}

// NewApnsSender создает отправитель APNS с token-based аутентификацией.
// Возвращает (nil, nil), если конфигурация не полная: push на iOS тогда
// просто отключен.
func NewApnsSender(cfg config.APNSConfig, logger *zap.Logger) (PlatformSender, error) {
	if cfg.KeyPath == "" || cfg.KeyID == "" || cfg.TeamID == "" || cfg.Topic == "" {
		logger.Warn("APNS config is incomplete (KeyPath, KeyID, TeamID, Topic), APNS sender disabled")
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключа APNS из файла %s: %w", cfg.KeyPath, err)
	}

	authToken := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}

	client := apns2.NewTokenClient(authToken).Production()

	logger.Info("APNS sender initialized",
		zap.String("key_id", cfg.KeyID),
		zap.String("topic", cfg.Topic))
	return &apnsSender{
		client: client,
		logger: logger.Named("ApnsSender"),
		topic:  cfg.Topic,
	}, nil
}

func (s *apnsSender) Send(ctx context.Context, tokens []string, notification models.PushNotification, data map[string]string) error {
	log := s.logger

	var wg sync.WaitGroup
	var mu sync.Mutex
	invalidTokens := make([]string, 0)
	failureCount := 0
	var firstError error

	payloadData := payload.NewPayload().
		AlertTitle(notification.Title).
		AlertBody(notification.Body).
		Sound("default")
	for k, v := range data {
		payloadData.Custom(k, v)
	}

	for _, deviceToken := range tokens {
		wg.Add(1)
		go func(tokenToSend string) {
			defer wg.Done()

			res, err := s.client.PushWithContext(ctx, &apns2.Notification{
				DeviceToken: tokenToSend,
				Topic:       s.topic,
				Payload:     payloadData,
				Priority:    apns2.PriorityHigh,
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				log.Error("APNS push failed", zap.Error(err))
				failureCount++
				if firstError == nil {
					firstError = fmt.Errorf("apns send error: %w", err)
				}
				return
			}

			if !res.Sent() {
				log.Warn("APNS push rejected",
					zap.Int("status_code", res.StatusCode),
					zap.String("reason", res.Reason))
				failureCount++
				if firstError == nil {
					firstError = fmt.Errorf("apns delivery failed: %s", res.Reason)
				}
				if res.Reason == apns2.ReasonUnregistered || res.Reason == apns2.ReasonBadDeviceToken {
					invalidTokens = append(invalidTokens, tokenToSend)
				}
			}
		}(deviceToken)
	}

	wg.Wait()

	if len(invalidTokens) > 0 {
		// Невалидные токены зачистит следующая регистрация устройства.
		log.Info("Stale APNS tokens detected", zap.Int("count", len(invalidTokens)))
	}

	if failureCount > 0 {
		log.Error("APNS batch finished with errors",
			zap.Int("failures", failureCount),
			zap.Int("total", len(tokens)))
		return firstError
	}
	return nil
}

func (s *apnsSender) Platform() string {
	return "ios"
}
