package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex SHA256 of data. It identifies re-uploads of the same file.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
