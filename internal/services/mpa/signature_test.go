package mpa

import (
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testCreds = Credentials{Key: "mpa-key", Secret: "mpa-secret"}

func newTestVerifier(creds Credentials, now time.Time) *SignatureVerifier {
	v := NewSignatureVerifier(creds)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyHappyPath(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(testCreds, now)

	body := []byte(`{"book":{"external_id":"bk-42","title":"Dune"}}`)
	timestamp := strconv.FormatInt(now.Unix(), 10)
	signature := Sign(testCreds.Secret, timestamp, body)

	assert.Nil(t, v.Verify(timestamp, testCreds.Key, signature, body))
}

func TestVerifyNotConfigured(t *testing.T) {
	now := time.Unix(1700000000, 0)

	for _, creds := range []Credentials{
		{},
		{Key: "mpa-key"},
		{Secret: "mpa-secret"},
	} {
		v := newTestVerifier(creds, now)
		err := v.Verify("1700000000", "mpa-key", "sig", []byte("{}"))
		assert.Equal(t, ErrNotConfigured, err)
	}
}

func TestVerifyInvalidKey(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(testCreds, now)

	body := []byte("{}")
	timestamp := "1700000000"
	signature := Sign(testCreds.Secret, timestamp, body)

	err := v.Verify(timestamp, "wrong-key", signature, body)
	assert.Equal(t, ErrInvalidKey, err)
}

func TestVerifyInvalidTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(testCreds, now)

	for _, timestamp := range []string{"", "abc", "-5", "17.5", "1700000000x", "99999999999999999999"} {
		err := v.Verify(timestamp, testCreds.Key, "sig", []byte("{}"))
		assert.Equal(t, ErrInvalidTimestamp, err, "timestamp %q", timestamp)
	}
}

func TestVerifyReplayWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(testCreds, now)
	body := []byte("{}")

	tests := []struct {
		name   string
		offset time.Duration
		err    *AuthError
	}{
		{"exactly at window boundary past", -300 * time.Second, nil},
		{"exactly at window boundary future", 300 * time.Second, nil},
		{"301s in the past", -301 * time.Second, ErrStaleTimestamp},
		{"301s in the future", 301 * time.Second, ErrStaleTimestamp},
		{"400s in the past", -400 * time.Second, ErrStaleTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timestamp := strconv.FormatInt(now.Add(tt.offset).Unix(), 10)
			signature := Sign(testCreds.Secret, timestamp, body)

			err := v.Verify(timestamp, testCreds.Key, signature, body)
			if tt.err == nil {
				assert.Nil(t, err)
			} else {
				assert.Equal(t, tt.err, err)
			}
		})
	}
}

func TestVerifyInvalidSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(testCreds, now)

	body := []byte(`{"book":{}}`)
	timestamp := "1700000000"

	// Signed with the wrong secret
	err := v.Verify(timestamp, testCreds.Key, Sign("other-secret", timestamp, body), body)
	assert.Equal(t, ErrInvalidSignature, err)

	// Signed over a different body
	err = v.Verify(timestamp, testCreds.Key, Sign(testCreds.Secret, timestamp, []byte("{}")), body)
	assert.Equal(t, ErrInvalidSignature, err)

	// Signature for another timestamp cannot be replayed
	err = v.Verify(timestamp, testCreds.Key, Sign(testCreds.Secret, "1700000001", body), body)
	assert.Equal(t, ErrInvalidSignature, err)
}

func TestVerifyChecksOrder(t *testing.T) {
	// A stale timestamp must be reported before the signature is looked
	// at, so a valid signature cannot mask replay.
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(testCreds, now)

	body := []byte("{}")
	old := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
	signature := Sign(testCreds.Secret, old, body)

	err := v.Verify(old, testCreds.Key, signature, body)
	assert.Equal(t, ErrStaleTimestamp, err)
}

func TestSignFormat(t *testing.T) {
	// Signature is hex HMAC-SHA256 over "timestamp.body".
	got := Sign("secret", "123", []byte("abc"))
	assert.Len(t, got, 64)
	_, err := hex.DecodeString(got)
	assert.NoError(t, err)
	assert.Equal(t, Sign("secret", "123", []byte("abc")), got)
	assert.NotEqual(t, Sign("secret", "124", []byte("abc")), got)
}
