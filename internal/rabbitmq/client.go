package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

// Client представляет собой клиент RabbitMQ.
// Обслуживает очередь пересинхронизации индекса и очередь уведомлений владельцев.
type Client struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	reindexQueue string
	notifyQueue  string
	logger       *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет обе очереди
func NewClient(url, reindexQueue, notifyQueue string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("connected to RabbitMQ")

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set channel qos: %w", err)
	}

	// Объявление очереди идемпотентно: если она уже есть, ничего не произойдет.
	for _, name := range []string{reindexQueue, notifyQueue} {
		q, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %q: %w", name, err)
		}
		logger.Info("queue declared", "queue", q.Name, "messages", q.Messages)
	}

	return &Client{
		conn:         conn,
		channel:      ch,
		reindexQueue: reindexQueue,
		notifyQueue:  notifyQueue,
		logger:       logger,
	}, nil
}

// Close закрывает соединение и канал RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ connection", "error", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
}

// PublishReindexRequest реализует ports.ReindexPublisher.
func (c *Client) PublishReindexRequest(ctx context.Context, req payloads.ReindexRequest) error {
	return c.publish(ctx, c.reindexQueue, req)
}

// PublishSightingNotification реализует ports.SightingPublisher.
func (c *Client) PublishSightingNotification(ctx context.Context, n payloads.SightingNotification) error {
	return c.publish(ctx, c.notifyQueue, n)
}

// StartConsumingReindexRequests реализует ports.ReindexConsumer.
func (c *Client) StartConsumingReindexRequests(ctx context.Context, handler func(context.Context, payloads.ReindexRequest) error) error {
	return c.consume(ctx, c.reindexQueue, func(body []byte) error {
		var req payloads.ReindexRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return errMalformed{err}
		}
		return handler(ctx, req)
	})
}

// StartConsumingSightingNotifications реализует ports.SightingConsumer.
func (c *Client) StartConsumingSightingNotifications(ctx context.Context, handler func(context.Context, payloads.SightingNotification) error) error {
	return c.consume(ctx, c.notifyQueue, func(body []byte) error {
		var n payloads.SightingNotification
		if err := json.Unmarshal(body, &n); err != nil {
			return errMalformed{err}
		}
		return handler(ctx, n)
	})
}

func (c *Client) publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msgID := uuid.NewString()
	err = c.channel.PublishWithContext(
		publishCtx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msgID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message to %q: %w", queue, err)
	}
	c.logger.Debug("message published", "queue", queue, "message_id", msgID)
	return nil
}

// consume читает очередь до отмены ctx. Блокирует вызывающего.
func (c *Client) consume(ctx context.Context, queue string, handle func(body []byte) error) error {
	msgs, err := c.channel.ConsumeWithContext(
		ctx,
		queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer for %q: %w", queue, err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping consumer", "queue", queue)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %q closed", queue)
			}

			err := handle(msg.Body)
			if err == nil {
				if ackErr := msg.Ack(false); ackErr != nil {
					c.logger.Error("error ACKing message", "queue", queue, "message_id", msg.MessageId, "error", ackErr)
				}
				continue
			}

			requeue := shouldRequeue(err, msg.Redelivered)
			c.logger.Warn("message processing failed",
				"queue", queue,
				"message_id", msg.MessageId,
				"requeue", requeue,
				"error", err,
			)
			if nackErr := msg.Nack(false, requeue); nackErr != nil {
				c.logger.Error("error NACKing message", "queue", queue, "message_id", msg.MessageId, "error", nackErr)
			}
		}
	}
}

type errMalformed struct{ err error }

func (e errMalformed) Error() string { return "malformed message: " + e.err.Error() }
func (e errMalformed) Unwrap() error { return e.err }

// shouldRequeue возвращает сообщение в очередь один раз и только для временных сбоев.
func shouldRequeue(err error, redelivered bool) bool {
	var malformed errMalformed
	switch {
	case errors.As(err, &malformed):
		return false
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		return false
	}
	return !redelivered
}
