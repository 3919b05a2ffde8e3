// Package ids generates short, lowercase identifiers and resolves
// user-typed prefixes back to full IDs.
package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"strconv"
	"strings"
	"time"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	if length <= 0 {
		return ""
	}
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length > len(encoded) {
		length = len(encoded)
	}
	return strings.ToLower(encoded[:length])
}

// GenerateSequenced hashes input together with a timestamp and a sequence
// number. Two calls with the same input and timestamp still differ as long
// as the sequence differs.
func GenerateSequenced(input string, timestamp time.Time, seq uint64, length int) string {
	return Generate(input+"\x00"+timestamp.Format(time.RFC3339Nano)+"\x00"+strconv.FormatUint(seq, 10), length)
}
