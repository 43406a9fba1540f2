package mpa

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// ReplayWindow is the maximum allowed skew, in either direction, between
// the request timestamp and the server clock.
const ReplayWindow = 300 * time.Second

// Credentials is the shared key pair the MPA app signs requests with.
type Credentials struct {
	Key    string
	Secret string
}

// AuthError is an authentication failure carrying its wire error code.
// Auth failures always map to HTTP 401 and are never retried server-side.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

var (
	ErrNotConfigured    = &AuthError{Code: "sync_not_configured", Message: "sync credentials are not configured"}
	ErrInvalidKey       = &AuthError{Code: "invalid_key", Message: "invalid sync key"}
	ErrInvalidTimestamp = &AuthError{Code: "invalid_timestamp", Message: "invalid timestamp format"}
	ErrStaleTimestamp   = &AuthError{Code: "stale_timestamp", Message: "request timestamp is outside allowed window"}
	ErrInvalidSignature = &AuthError{Code: "invalid_signature", Message: "invalid signature"}
)

// SignatureVerifier authenticates inbound sync requests. The signature is
// hex HMAC-SHA256 of "timestamp.body" under the shared secret. Pure
// validation, no side effects.
type SignatureVerifier struct {
	creds Credentials
	now   func() time.Time
}

func NewSignatureVerifier(creds Credentials) *SignatureVerifier {
	return &SignatureVerifier{
		creds: creds,
		now:   time.Now,
	}
}

// Verify checks credentials, timestamp freshness and the body signature,
// in that order. Key and signature comparisons are constant-time.
func (v *SignatureVerifier) Verify(timestamp, providedKey, providedSignature string, rawBody []byte) *AuthError {
	if v.creds.Key == "" || v.creds.Secret == "" {
		return ErrNotConfigured
	}

	if subtle.ConstantTimeCompare([]byte(v.creds.Key), []byte(providedKey)) != 1 {
		return ErrInvalidKey
	}

	if !isDigits(timestamp) {
		return ErrInvalidTimestamp
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}

	age := v.now().Unix() - ts
	if age < 0 {
		age = -age
	}
	if age > int64(ReplayWindow/time.Second) {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(v.creds.Secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(providedSignature)) {
		return ErrInvalidSignature
	}

	return nil
}

// Sign computes the signature the app is expected to send. Exposed for
// outbound tooling and tests.
func Sign(secret, timestamp string, rawBody []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
