package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOTP creates a random numeric code of the given length
func GenerateOTP(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		b.WriteString(digit.String())
	}
	return b.String(), nil
}
