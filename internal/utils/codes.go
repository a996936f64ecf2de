package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewNumericCode returns a 6-digit login/OTP code, uniform over
// 100000..999999 (no leading zeros, so the code survives any client
// that treats it as a number).
func NewNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
