// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package verify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/identity/verify"
)

/*
TestCodec_Roundtrip verifies that a produced payload validates against the
email it was issued for and yields the right subject.
*/
func TestCodec_Roundtrip(t *testing.T) {
	codec := verify.NewCodec("roundtrip-secret")

	payload, err := codec.Produce("0198f001-0000-7000-8000-000000000001", "user@averio.test")
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	// 1. Subject is recoverable without the secret
	subject, err := codec.Subject(payload)
	require.NoError(t, err)
	assert.Equal(t, "0198f001-0000-7000-8000-000000000001", subject)

	// 2. Full validation passes against the issued email
	assert.NoError(t, codec.Validate(payload, "user@averio.test"))
}

/*
TestCodec_Validate_Failures verifies the rejection paths: changed email,
wrong secret, and tampered payloads.
*/
func TestCodec_Validate_Failures(t *testing.T) {
	codec := verify.NewCodec("validate-secret")

	payload, err := codec.Produce("0198f001-0000-7000-8000-000000000002", "issued@averio.test")
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload string
		email   string
		codec   *verify.Codec
	}{
		{
			name:    "email_changed_after_issuance",
			payload: payload,
			email:   "changed@averio.test",
			codec:   codec,
		},
		{
			name:    "wrong_secret",
			payload: payload,
			email:   "issued@averio.test",
			codec:   verify.NewCodec("different-secret"),
		},
		{
			name:    "tampered_signature",
			payload: payload[:len(payload)-4] + "AAAA",
			email:   "issued@averio.test",
			codec:   codec,
		},
		{
			name:    "not_a_token",
			payload: "garbage",
			email:   "issued@averio.test",
			codec:   codec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.codec.Validate(tt.payload, tt.email))
		})
	}
}

/*
TestCodec_Subject_ReadsUnverifiedPayloads verifies that the subject can be
extracted even when the signature would not verify, and that structurally
broken payloads are still rejected.
*/
func TestCodec_Subject_ReadsUnverifiedPayloads(t *testing.T) {
	issuer := verify.NewCodec("issuer-secret")
	reader := verify.NewCodec("reader-secret")

	payload, err := issuer.Produce("0198f001-0000-7000-8000-000000000003", "user@averio.test")
	require.NoError(t, err)

	// Different secret: subject still readable, validation refused
	subject, err := reader.Subject(payload)
	require.NoError(t, err)
	assert.Equal(t, "0198f001-0000-7000-8000-000000000003", subject)
	assert.Error(t, reader.Validate(payload, "user@averio.test"))

	// Structurally broken payloads fail subject extraction
	_, err = reader.Subject("only-one-segment")
	assert.Error(t, err)
}

/*
TestCodec_Link verifies URL assembly, including query escaping of the payload.
*/
func TestCodec_Link(t *testing.T) {
	codec := verify.NewCodec("link-secret")

	link := codec.Link("https://averio.test", "abc+def")

	assert.True(t, strings.HasPrefix(link, "https://averio.test/api/v1/auth/verify-email?token="))
	assert.NotContains(t, link, "+", "payload must be query-escaped")
}
