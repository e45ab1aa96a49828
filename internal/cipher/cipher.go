// Package cipher implements the reversible XOR transform used to obfuscate
// message bodies at rest. It is deliberately not a real cipher: the key is
// stored next to the ciphertext, so anyone with database access can decode.
package cipher

import "crypto/rand"

// Encode XORs data against key, wrapping the key cyclically when it is
// shorter than data. The transform is self-inverse, so Decode is the same
// operation. An empty key returns the input unchanged.
func Encode(data, key []byte) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)
		return out
	}
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// Decode reverses Encode.
func Decode(data, key []byte) []byte {
	return Encode(data, key)
}

// NewKey returns n cryptographically random bytes. Callers size the key to
// the plaintext so the cyclic wrap in Encode never kicks in for stored
// messages.
func NewKey(n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
