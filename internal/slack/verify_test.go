package slack

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func signedRequest(now time.Time) (body []byte, ts, sig string) {
	body = []byte("token=xyz&command=%2Fbart&text=gm+fam")
	ts = strconv.FormatInt(now.Unix(), 10)
	sig = Signature(testSecret, ts, body)
	return body, ts, sig
}

func TestSignatureIsDeterministic(t *testing.T) {
	body := []byte("token=xyz&text=hello")
	first := Signature(testSecret, "1531420618", body)
	second := Signature(testSecret, "1531420618", body)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^v0=[0-9a-f]{64}$`, first)
}

func TestVerifySignatureAccepts(t *testing.T) {
	now := time.Now()
	body, ts, sig := signedRequest(now)
	require.NoError(t, VerifySignature(testSecret, body, ts, sig, now))
}

func TestVerifySignatureMissingHeaders(t *testing.T) {
	now := time.Now()
	body, ts, sig := signedRequest(now)

	assert.ErrorIs(t, VerifySignature(testSecret, body, "", sig, now), ErrMissingHeaders)
	assert.ErrorIs(t, VerifySignature(testSecret, body, ts, "", now), ErrMissingHeaders)
}

func TestVerifySignatureReplayWindow(t *testing.T) {
	now := time.Now()
	body := []byte("token=xyz")

	cases := []struct {
		name   string
		offset time.Duration
		ok     bool
	}{
		{"exactly at window", -300 * time.Second, true},
		{"just inside", -299 * time.Second, true},
		{"just outside", -301 * time.Second, false},
		{"future inside", 300 * time.Second, true},
		{"future outside", 301 * time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := strconv.FormatInt(now.Add(tc.offset).Unix(), 10)
			sig := Signature(testSecret, ts, body)
			err := VerifySignature(testSecret, body, ts, sig, now)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrStaleTimestamp)
			}
		})
	}
}

func TestVerifySignatureGarbageTimestamp(t *testing.T) {
	err := VerifySignature(testSecret, []byte("x"), "not-a-number", "v0=00", time.Now())
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignatureBodyMutation(t *testing.T) {
	now := time.Now()
	body, ts, sig := signedRequest(now)

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.ErrorIs(t, VerifySignature(testSecret, mutated, ts, sig, now), ErrBadSignature,
			fmt.Sprintf("body byte %d", i))
	}
}

func TestVerifySignatureSignatureMutation(t *testing.T) {
	now := time.Now()
	body, ts, sig := signedRequest(now)

	// Flip one hex character at a time, keeping length fixed.
	for i := 3; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		assert.ErrorIs(t, VerifySignature(testSecret, body, ts, string(mutated), now), ErrBadSignature)
	}
}

func TestVerifySignatureLengthMismatch(t *testing.T) {
	now := time.Now()
	body, ts, sig := signedRequest(now)
	assert.ErrorIs(t, VerifySignature(testSecret, body, ts, sig+"00", now), ErrBadSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	now := time.Now()
	body, ts, _ := signedRequest(now)
	sig := Signature("another-secret", ts, body)
	assert.ErrorIs(t, VerifySignature(testSecret, body, ts, sig, now), ErrBadSignature)
}
