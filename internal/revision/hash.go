package revision

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher fingerprints a body pair.
type Hasher func(content, html string) string

// Fingerprint is the sha256 of content followed by html, lowercase hex.
func Fingerprint(content, html string) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte(html))
	return hex.EncodeToString(h.Sum(nil))
}
