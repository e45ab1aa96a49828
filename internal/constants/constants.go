package constants

import "time"

const (
	// MessageTTL is the fixed lifetime of every message record. Expiry is
	// computed once at creation; there is no per-message override.
	MessageTTL = 24 * time.Hour

	// MaxMessageBytes bounds the accepted plaintext size at the API boundary.
	MaxMessageBytes = 64 * 1024

	// IDGenerationAttempts bounds the existence-check retry loop when
	// generating a fresh message id.
	IDGenerationAttempts = 3
)
