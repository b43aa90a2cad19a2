package github

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"strings"
)

const (
	pemTypePKCS1 = "RSA PRIVATE KEY"
	pemTypePKCS8 = "PRIVATE KEY"
)

var oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// pkcs8 mirrors the PrivateKeyInfo structure of RFC 5208.
type pkcs8 struct {
	Version    int
	Algo       pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// ToPKCS8 wraps a PKCS#1 RSA private key in a PKCS#8 envelope. PKCS#8 input
// and anything unrecognised is returned unchanged, so the function is
// idempotent.
func ToPKCS8(pemKey string) string {
	if strings.Contains(pemKey, "-----BEGIN "+pemTypePKCS8+"-----") {
		return pemKey
	}
	if !strings.Contains(pemKey, "-----BEGIN "+pemTypePKCS1+"-----") {
		return pemKey
	}

	block, _ := pem.Decode([]byte(strings.TrimSpace(pemKey)))
	if block == nil || block.Type != pemTypePKCS1 {
		return pemKey
	}

	der, err := asn1.Marshal(pkcs8{
		Version: 0,
		Algo: pkix.AlgorithmIdentifier{
			Algorithm:  oidRSAEncryption,
			Parameters: asn1.NullRawValue,
		},
		PrivateKey: block.Bytes,
	})
	if err != nil {
		return pemKey
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePKCS8, Bytes: der}))
}

// IsKnownKeyFormat reports whether pemKey carries a PKCS#1 or PKCS#8 marker.
func IsKnownKeyFormat(pemKey string) bool {
	return strings.Contains(pemKey, "-----BEGIN "+pemTypePKCS8+"-----") ||
		strings.Contains(pemKey, "-----BEGIN "+pemTypePKCS1+"-----")
}
