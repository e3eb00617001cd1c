package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// GenerateTransactionRef creates the external-facing payment reference.
// Format: TRV + 12 random hex chars, e.g. TRV9f3a1c20b7e4.
func GenerateTransactionRef() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return "TRV" + hex.EncodeToString(buf)
}
