package audit

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/darmiel/ctoken/internal/core"
)

const (
	DefaultFingerprintType  = "default"
	FirebaseFingerprintType = "firebase"
	LocalFingerprintType    = "local"
)

var fingerprintRegistry = map[string]core.Fingerprinter{
	DefaultFingerprintType: func(_ string) string {
		return "(n/a)"
	},
}

func RegisterFingerprinter(providerType string, fn core.Fingerprinter) {
	fingerprintRegistry[providerType] = fn
}

func CalculateFingerprint(providerType, token string) string {
	fn, ok := fingerprintRegistry[providerType]
	if !ok {
		fn = fingerprintRegistry[DefaultFingerprintType]
	}
	return fn(token)
}

func init() {
	RegisterFingerprinter(FirebaseFingerprintType, calculateSHA256Fingerprint)
	RegisterFingerprinter(LocalFingerprintType, calculateSHA256Fingerprint)
}

func calculateSHA256Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
