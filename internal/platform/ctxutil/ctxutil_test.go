// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/platform/ctxutil"
)

/*
TestRequestID verifies storing and retrieving the request ID, and the empty
default on a bare context.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Round-trips through the context
	ctx = ctxutil.WithRequestID(ctx, "0198f001-0000-7000-8000-00000000cafe")
	assert.Equal(t, "0198f001-0000-7000-8000-00000000cafe", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies that a stored logger is returned as-is and that a bare
context falls back to the global default instead of nil.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()

	// 1. Bare context: default logger, never nil
	require.NotNil(t, ctxutil.GetLogger(ctx))
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Stored logger comes back identically
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestAccount verifies current-account storage and the nil anonymous default.
*/
func TestAccount(t *testing.T) {
	ctx := context.Background()

	// 1. Anonymous request: nil account
	assert.Nil(t, ctxutil.GetAccount(ctx))

	// 2. Attached account comes back identically
	acct := &account.Account{ID: "0198f001-0000-7000-8000-000000000001", Email: "ctx@averio.test"}
	ctx = ctxutil.WithAccount(ctx, acct)
	assert.Same(t, acct, ctxutil.GetAccount(ctx))
}
