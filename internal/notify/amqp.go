// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout caps how long a single publish may block the request path.
const publishTimeout = 5 * time.Second

// Publisher implements [Sender] on top of a long-lived RabbitMQ channel.
//
// Queues are declared durable at construction so messages survive broker
// restarts. The channel is guarded by a mutex; amqp091 channels are not safe
// for concurrent publishing.
type Publisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	logger     *slog.Logger
}

// NewPublisher dials the broker and declares the notification queues.
//
// # Parameters
//   - amqpURL: Broker connection URL.
//   - logger: Structured logger for connection events.
func NewPublisher(amqpURL string, logger *slog.Logger) (*Publisher, error) {
	connection, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("notify_amqp_dial_failed: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("notify_amqp_channel_failed: %w", err)
	}

	// Idempotent declarations. Durable so messages survive broker restarts.
	for _, queue := range []string{QueueEmail, QueueAccountVerified} {
		if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			_ = channel.Close()
			_ = connection.Close()
			return nil, fmt.Errorf("notify_amqp_declare_failed: %w", err)
		}
	}

	logger.Info("amqp publisher connected",
		slog.String("queue_email", QueueEmail),
		slog.String("queue_verified", QueueAccountVerified),
	)

	return &Publisher{connection: connection, channel: channel, logger: logger}, nil
}

// Close releases the channel and connection.
func (publisher *Publisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if err := publisher.channel.Close(); err != nil {
		return fmt.Errorf("notify_amqp_channel_close_failed: %w", err)
	}
	if err := publisher.connection.Close(); err != nil {
		return fmt.Errorf("notify_amqp_close_failed: %w", err)
	}
	return nil
}

// publish marshals the payload and delivers it to the named queue.
func (publisher *Publisher) publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify_amqp_marshal_failed: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	err = publisher.channel.PublishWithContext(publishCtx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("notify_amqp_publish_failed: %w", err)
	}

	return nil
}

// VerificationRequested implements [Sender].
func (publisher *Publisher) VerificationRequested(ctx context.Context, event EmailEvent) error {
	event.Kind = KindVerification
	return publisher.publish(ctx, QueueEmail, event)
}

// PasswordResetRequested implements [Sender].
func (publisher *Publisher) PasswordResetRequested(ctx context.Context, event EmailEvent) error {
	event.Kind = KindPasswordReset
	return publisher.publish(ctx, QueueEmail, event)
}

// AccountVerified implements [Sender].
func (publisher *Publisher) AccountVerified(ctx context.Context, event VerifiedEvent) error {
	return publisher.publish(ctx, QueueAccountVerified, event)
}
