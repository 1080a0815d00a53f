package loader

import (
	"crypto/rand"
	"fmt"
)

const (
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength   = 32
)

// randomToken generates a fresh alphanumeric token for a staged filename.
// Unpredictable names keep a concurrent process from pre-staging content at
// a guessable path and let unrelated loads share the temp area without
// collisions.
func randomToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate staging token: %w", err)
	}
	out := make([]byte, tokenLength)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out), nil
}
