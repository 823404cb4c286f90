package push

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"daydreams-server/internal/models"
)

// NotificationSender обрабатывает одно push-сообщение из очереди.
type NotificationSender interface {
	SendNotification(ctx context.Context, payload models.PushNotificationPayload) error
}

// PlatformSender отправляет уведомление на конкретную платформу (FCM/APNS).
type PlatformSender interface {
	Send(ctx context.Context, tokens []string, notification models.PushNotification, data map[string]string) error
	Platform() string // "android" или "ios"
}

type notificationService struct {
	tokenProvider TokenProvider
	logger        *zap.Logger
	fcmSender     PlatformSender // nil, если FCM не настроен
	apnsSender    PlatformSender // nil, если APNS не настроен
}

var _ NotificationSender = (*notificationService)(nil)

// NewNotificationService создает сервис отправки уведомлений.
func NewNotificationService(tp TokenProvider, logger *zap.Logger, fcmSender, apnsSender PlatformSender) NotificationSender {
	if fcmSender == nil {
		logger.Warn("FCM sender is not configured")
	}
	if apnsSender == nil {
		logger.Warn("APNS sender is not configured")
	}
	return &notificationService{
		tokenProvider: tp,
		logger:        logger.Named("NotificationService"),
		fcmSender:     fcmSender,
		apnsSender:    apnsSender,
	}
}

func (s *notificationService) SendNotification(ctx context.Context, payload models.PushNotificationPayload) error {
	log := s.logger.With(zap.String("user_id", payload.UserID.String()))

	deviceTokens, err := s.tokenProvider.GetUserDeviceTokens(ctx, payload.UserID)
	if err != nil {
		// Временная недоступность хранилища токенов не повод перекладывать
		// сообщение в очередь бесконечно.
		log.Error("Failed to fetch device tokens", zap.Error(err))
		return nil
	}

	if len(deviceTokens) == 0 {
		log.Debug("No device tokens registered, skipping")
		return nil
	}

	androidTokens := make([]string, 0)
	iosTokens := make([]string, 0)
	for _, dt := range deviceTokens {
		switch dt.Platform {
		case "android":
			androidTokens = append(androidTokens, dt.Token)
		case "ios":
			iosTokens = append(iosTokens, dt.Token)
		default:
			log.Warn("Unknown token platform", zap.String("platform", dt.Platform))
		}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var sendErrors []error

	if s.fcmSender != nil && len(androidTokens) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.fcmSender.Send(ctx, androidTokens, payload.Notification, payload.Data); err != nil {
				log.Error("FCM send failed", zap.Error(err))
				mu.Lock()
				sendErrors = append(sendErrors, fmt.Errorf("fcm: %w", err))
				mu.Unlock()
			}
		}()
	}

	if s.apnsSender != nil && len(iosTokens) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.apnsSender.Send(ctx, iosTokens, payload.Notification, payload.Data); err != nil {
				log.Error("APNS send failed", zap.Error(err))
				mu.Lock()
				sendErrors = append(sendErrors, fmt.Errorf("apns: %w", err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if len(sendErrors) > 0 {
		return sendErrors[0]
	}
	return nil
}
