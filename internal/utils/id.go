package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateID returns a random identifier made of prefix followed by twelve
// upper-case hex digits, e.g. M3F09A1C2B7D4.
func GenerateID(prefix string) (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return prefix + strings.ToUpper(hex.EncodeToString(bytes)), nil
}
