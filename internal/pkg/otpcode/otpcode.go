// Package otpcode produces numeric one-time codes and their storage digests.
package otpcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const defaultLength = 6

var ten = big.NewInt(10)

// Generator issues codes of a fixed number of decimal digits.
type Generator struct {
	Length int
}

func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = defaultLength
	}
	return &Generator{Length: length}
}

// Generate returns a fresh code and its digest. Each digit is drawn
// uniformly from the OS CSPRNG.
func (g *Generator) Generate() (plain, digest string, err error) {
	n := g.Length
	if n <= 0 {
		n = defaultLength
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", "", fmt.Errorf("otpcode: read entropy: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	plain = b.String()
	return plain, Digest(plain), nil
}

// Digest is the lowercase hex SHA-256 of plain.
func Digest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether plain hashes to digest, in constant time.
// An empty plain never matches.
func Equal(plain, digest string) bool {
	if plain == "" || digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Digest(plain)), []byte(digest)) == 1
}
