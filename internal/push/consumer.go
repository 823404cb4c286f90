package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"daydreams-server/internal/models"
)

// Consumer читает push-сообщения из очереди и раздает их воркерам.
type Consumer struct {
	conn        *amqp.Connection
	logger      *zap.Logger
	queueName   string
	concurrency int
	processor   *Processor
	stopChannel chan struct{}
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
}

// NewConsumer создает консьюмер очереди push-уведомлений.
func NewConsumer(conn *amqp.Connection, logger *zap.Logger, queueName string, concurrency int, processor *Processor) (*Consumer, error) {
	return &Consumer{
		conn:        conn,
		logger:      logger.Named("Consumer"),
		queueName:   queueName,
		concurrency: concurrency,
		processor:   processor,
		stopChannel: make(chan struct{}),
	}, nil
}

// Start блокируется до вызова Stop.
func (c *Consumer) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelFunc = cancel

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("не удалось открыть канал RabbitMQ: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("не удалось объявить очередь '%s': %w", c.queueName, err)
	}

	if err := ch.Qos(c.concurrency, 0, false); err != nil {
		return fmt.Errorf("не удалось установить QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"push-consumer", // consumer tag
		false,           // auto-ack
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать консьюмера: %w", err)
	}

	c.logger.Info("Consumer started, waiting for messages", zap.Int("concurrency", c.concurrency))

	c.wg.Add(c.concurrency)
	for i := 0; i < c.concurrency; i++ {
		go func(workerID int) {
			defer c.wg.Done()
			logger := c.logger.With(zap.Int("worker_id", workerID))
			for {
				select {
				case <-ctx.Done():
					return
				case <-c.stopChannel:
					return
				case d, ok := <-msgs:
					if !ok {
						logger.Info("Delivery channel closed, worker exiting")
						return
					}
					c.processor.ProcessMessage(ctx, d)
				}
			}
		}(i)
	}

	<-c.stopChannel
	c.logger.Info("Stop signal received, cancelling workers")
	c.cancelFunc()
	c.wg.Wait()
	c.logger.Info("All consumer workers stopped")
	return nil
}

// Stop инициирует остановку консьюмера.
func (c *Consumer) Stop() {
	close(c.stopChannel)
}

// Processor обрабатывает отдельные сообщения очереди.
type Processor struct {
	logger *zap.Logger
	sender NotificationSender
}

// NewProcessor создает обработчик сообщений.
func NewProcessor(logger *zap.Logger, sender NotificationSender) *Processor {
	return &Processor{
		logger: logger.Named("Processor"),
		sender: sender,
	}
}

// ProcessMessage десериализует сообщение и отправляет уведомление.
func (p *Processor) ProcessMessage(ctx context.Context, d amqp.Delivery) {
	var payload models.PushNotificationPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		p.logger.Error("Failed to unmarshal push payload",
			zap.Error(err),
			zap.Uint64("delivery_tag", d.DeliveryTag))
		// Битое сообщение переигрывать бессмысленно.
		if ackErr := d.Nack(false, false); ackErr != nil {
			p.logger.Error("Failed to nack malformed message", zap.Error(ackErr))
		}
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := p.sender.SendNotification(processCtx, payload); err != nil {
		p.logger.Error("Failed to process push notification",
			zap.Error(err),
			zap.String("user_id", payload.UserID.String()),
			zap.Uint64("delivery_tag", d.DeliveryTag))
		if ackErr := d.Nack(false, false); ackErr != nil {
			p.logger.Error("Failed to nack message", zap.Error(ackErr))
		}
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		p.logger.Error("Failed to ack message", zap.Error(ackErr))
	}
}
