package webhook

import (
	"strings"

	"github.com/google/go-github/v62/github"
)

const signaturePrefix = "sha256="

// VerifySignature reports whether signatureHeader is the HMAC-SHA256 of rawBody
// under secret, in GitHub's "sha256=<hex>" form. The MAC comparison is
// constant time; a missing header, another digest or a malformed value fails.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || !strings.HasPrefix(signatureHeader, signaturePrefix) {
		return false
	}
	return github.ValidateSignature(signatureHeader, rawBody, []byte(secret)) == nil
}
