package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex sha256 digest of a file payload. Used as the
// dedup key for uploaded resumes.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
