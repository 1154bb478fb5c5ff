package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"time"
)

// ReplayWindow is the maximum accepted age of a signed request.
const ReplayWindow = 300 * time.Second

var (
	ErrMissingHeaders = errors.New("missing signature headers")
	ErrStaleTimestamp = errors.New("request timestamp outside replay window")
	ErrBadSignature   = errors.New("signature mismatch")
)

// Signature computes the v0 request signature for a signing secret,
// timestamp and raw body. Deterministic for fixed inputs.
func Signature(signingSecret string, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(signingSecret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature authenticates an inbound request against the configured
// signing secret. The raw unparsed body is required for signature
// stability. Rejects stale timestamps (|now-ts| > ReplayWindow) and any
// signature that does not match in constant time.
func VerifySignature(signingSecret string, body []byte, timestampHeader, signatureHeader string, now time.Time) error {
	if timestampHeader == "" || signatureHeader == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	if math.Abs(float64(now.Unix()-ts)) > ReplayWindow.Seconds() {
		return ErrStaleTimestamp
	}

	expected := Signature(signingSecret, timestampHeader, body)
	if len(signatureHeader) != len(expected) {
		return ErrBadSignature
	}
	if subtle.ConstantTimeCompare([]byte(signatureHeader), []byte(expected)) != 1 {
		return ErrBadSignature
	}
	return nil
}
