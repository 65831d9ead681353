// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration an opaque bearer token remains valid.
	// Long-lived (30 days) because the single-session policy already caps
	// exposure to one live token per account.
	AccessTokenTTL = 30 * 24 * time.Hour

	// AccessTokenLength is the byte length of the random bearer token.
	AccessTokenLength = 32

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// DeviceNameMaxLen caps the client-supplied device label on login.
	DeviceNameMaxLen = 100
)
