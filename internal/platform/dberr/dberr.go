// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nhatvu/averio/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation = "23505"
)

// IsNotFound reports whether the error means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether the error is a unique constraint breach.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == codeUniqueViolation
	}
	return false
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	if IsNotFound(err) {
		return apperr.NotFound(notFoundMessage)
	}

	return apperr.Internal(err)
}
