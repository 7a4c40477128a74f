package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// swingIDBytes is the number of digest bytes kept for the encoded ID.
// 16 bytes of SHA-256 output keeps IDs short enough for log lines and UI
// overlays while staying collision-free for any realistic session volume.
const swingIDBytes = 16

// ComputeSwingID computes a deterministic swing identifier.
// Formula: base58(SHA256(session_id|contact_ms|sequence)[:16]).
func ComputeSwingID(sessionID string, contactMs int64, sequence int) string {
	data := fmt.Sprintf("%s|%d|%d", sessionID, contactMs, sequence)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:swingIDBytes])
}
