package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"zen":"Keep it logically awesome.","hook_id":1}`)
	secret := "s3cret"
	valid := sign(body, secret)

	tests := []struct {
		name   string
		body   []byte
		header string
		secret string
		want   bool
	}{
		{"valid", body, valid, secret, true},
		{"empty header", body, "", secret, false},
		{"wrong secret", body, valid, "other", false},
		{"body changed", append([]byte(" "), body...), valid, secret, false},
		{"truncated", body, valid[:len(valid)-2], secret, false},
		{"extra byte", body, valid + "0", secret, false},
		{"missing prefix", body, valid[len("sha256="):], secret, false},
		{"sha1 digest", body, "sha1=" + valid[len("sha256="):], secret, false},
		{"not hex", body, "sha256=zz", secret, false},
		{"empty body signed", []byte{}, sign([]byte{}, secret), secret, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(tt.body, tt.header, tt.secret))
		})
	}
}

func TestVerifySignature_SingleBitMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	secret := "webhook-secret"

	for i := 0; i < 50; i++ {
		body := make([]byte, 1+rng.Intn(256))
		rng.Read(body)
		header := sign(body, secret)
		assert.True(t, VerifySignature(body, header, secret))

		mutated := append([]byte(nil), body...)
		mutated[rng.Intn(len(mutated))] ^= 1 << uint(rng.Intn(8))
		assert.False(t, VerifySignature(mutated, header, secret), "mutated body accepted")

		hexDigits := []byte(header)
		pos := len("sha256=") + rng.Intn(64)
		if hexDigits[pos] == '0' {
			hexDigits[pos] = '1'
		} else {
			hexDigits[pos] = '0'
		}
		assert.False(t, VerifySignature(body, string(hexDigits), secret), "mutated signature accepted")
	}
}
