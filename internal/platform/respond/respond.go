// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows a strict, predictable JSON envelope structure. This consistency is
// crucial for mobile apps and frontend SPAs to parse data robustly.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/ctxutil"
	"github.com/nhatvu/averio/pkg/pagination"
)

// maxDiagnosticLength bounds the opaque diagnostic string on 500 responses.
const maxDiagnosticLength = 140

// Envelope is the uniform JSON body for every API response.
//
// Code mirrors the HTTP status. Data is present only on success paths,
// Errors only on validation failures, and Error only on unexpected faults.
type Envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Success bool                `json:"success,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ListPayload is the Data shape for paginated list responses.
type ListPayload struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Success writes a success envelope with an arbitrary status code.
func Success(writer http.ResponseWriter, statusCode int, message string, data any) {
	JSON(writer, statusCode, Envelope{
		Code:    statusCode,
		Message: message,
		Success: true,
		Data:    data,
	})
}

// OK writes a 200 OK success envelope.
func OK(writer http.ResponseWriter, message string, data any) {
	Success(writer, http.StatusOK, message, data)
}

// Created writes a 201 Created success envelope.
func Created(writer http.ResponseWriter, message string, data any) {
	Success(writer, http.StatusCreated, message, data)
}

// Paginated writes a 200 OK success envelope with items and pagination metadata.
func Paginated(writer http.ResponseWriter, message string, items any, meta pagination.Meta) {
	Success(writer, http.StatusOK, message, ListPayload{Items: items, Meta: meta})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client for security.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.Int("status", appError.HTTPStatus),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	envelope := Envelope{
		Code:    appError.HTTPStatus,
		Message: appError.Message,
		Errors:  fieldErrorMap(appError.Details),
	}

	// 500 responses carry a short opaque diagnostic, never the full cause chain.
	if appError.HTTPStatus >= 500 {
		envelope.Error = diagnostic(appError.Cause)
	}

	JSON(writer, appError.HTTPStatus, envelope)
}

// fieldErrorMap converts field error details into the envelope's errors map.
func fieldErrorMap(details []apperr.FieldError) map[string][]string {
	if len(details) == 0 {
		return nil
	}

	errs := make(map[string][]string, len(details))
	for _, detail := range details {
		errs[detail.Field] = append(errs[detail.Field], detail.Message)
	}
	return errs
}

// diagnostic produces the truncated, single-line fault summary for 500 bodies.
func diagnostic(cause error) string {
	if cause == nil {
		return "unexpected fault"
	}

	msg := cause.Error()
	if len(msg) > maxDiagnosticLength {
		msg = msg[:maxDiagnosticLength]
	}
	return msg
}
