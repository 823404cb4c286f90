package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"daydreams-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// PushNotificationPublisher defines the interface for publishing push notification requests.
type PushNotificationPublisher interface {
	PublishPushNotification(ctx context.Context, payload models.PushNotificationPayload) error
}

// rabbitMQPushPublisher реализует PushNotificationPublisher для RabbitMQ.
type rabbitMQPushPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

var _ PushNotificationPublisher = (*rabbitMQPushPublisher)(nil)

// NewRabbitMQPushPublisher создает паблишер push-уведомлений.
// Паблишер объявляет очередь сам, чтобы не зависеть от порядка запуска
// сервисов: параметры должны совпадать с консьюмером в notifier.
func NewRabbitMQPushPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (PushNotificationPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("push publisher: не удалось открыть канал: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("push publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}

	return &rabbitMQPushPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("PushPublisher"),
	}, nil
}

// PublishPushNotification сериализует payload и кладет его в очередь.
func (p *rabbitMQPushPublisher) PublishPushNotification(ctx context.Context, payload models.PushNotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("push publisher: ошибка сериализации payload: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(publishCtx,
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		p.logger.Error("Не удалось опубликовать push-уведомление",
			zap.String("userID", payload.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("push publisher: ошибка публикации: %w", err)
	}

	p.logger.Debug("Push-уведомление опубликовано",
		zap.String("userID", payload.UserID.String()),
		zap.String("title", payload.Notification.Title))
	return nil
}
