// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAccount returns a new context with the resolved current account attached.
//
// The guard chain stores a FRESH row here on every authenticated request —
// downstream code must never cache it across requests.
func WithAccount(ctx context.Context, acct *account.Account) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAccount, acct)
}

// GetAccount retrieves the current [*account.Account] from the [context.Context].
// Returns nil for anonymous requests.
func GetAccount(ctx context.Context) *account.Account {
	acct, ok := ctx.Value(ctxkey.KeyAccount).(*account.Account)
	if !ok {
		return nil
	}
	return acct
}
