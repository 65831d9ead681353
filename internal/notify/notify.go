// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package notify decouples the identity services from outbound user messaging.

Verification links and password reset tokens must reach the user out-of-band.
This package defines the [Sender] contract the services publish through and
ships two implementations: an AMQP publisher that hands events to the mailer
workers, and a no-op sender for environments without a broker.

Architecture:

  - Sender: The contract; one method per user-facing event.
  - Publisher: RabbitMQ-backed implementation with durable queues.
  - NoopSender: Logs and drops events (local development, tests).

Delivery failures never roll back the identity mutation that produced the
event; callers decide per call site whether a failed send is fatal.
*/
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Queue names the mailer workers consume from.
const (
	// QueueEmail carries events that result in an outbound email.
	QueueEmail = "notify.email"
	// QueueAccountVerified carries fan-out events for downstream systems.
	QueueAccountVerified = "account.verified"
)

// Event kinds carried on [QueueEmail].
const (
	KindVerification  = "verification_requested"
	KindPasswordReset = "password_reset_requested"
)

// EmailEvent is the payload delivered to the mailer workers.
type EmailEvent struct {
	Kind       string    `json:"kind"`
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	Link       string    `json:"link,omitempty"`
	Token      string    `json:"token,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VerifiedEvent announces a completed email verification to downstream systems.
type VerifiedEvent struct {
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}

// Sender is the outbound messaging contract used by the identity services.
type Sender interface {
	// VerificationRequested asks the mailer to deliver a verification link.
	VerificationRequested(ctx context.Context, event EmailEvent) error
	// PasswordResetRequested asks the mailer to deliver a reset token.
	PasswordResetRequested(ctx context.Context, event EmailEvent) error
	// AccountVerified announces a completed verification.
	AccountVerified(ctx context.Context, event VerifiedEvent) error
}

// # No-op Implementation

// NoopSender drops every event after logging it at debug level.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender constructs a [NoopSender].
func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// VerificationRequested implements [Sender].
func (sender *NoopSender) VerificationRequested(ctx context.Context, event EmailEvent) error {
	sender.logger.DebugContext(ctx, "notify_dropped",
		slog.String("kind", KindVerification),
		slog.String("account_id", event.AccountID),
	)
	return nil
}

// PasswordResetRequested implements [Sender].
func (sender *NoopSender) PasswordResetRequested(ctx context.Context, event EmailEvent) error {
	sender.logger.DebugContext(ctx, "notify_dropped",
		slog.String("kind", KindPasswordReset),
		slog.String("account_id", event.AccountID),
	)
	return nil
}

// AccountVerified implements [Sender].
func (sender *NoopSender) AccountVerified(ctx context.Context, event VerifiedEvent) error {
	sender.logger.DebugContext(ctx, "notify_dropped",
		slog.String("kind", "account_verified"),
		slog.String("account_id", event.AccountID),
	)
	return nil
}
