// Package generate produces random secret values.
//
// Every generator reads from an io.Reader so callers can swap crypto/rand for
// a seeded stream when reproducible output is needed.
package generate

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PasswordAlphabet is the character set used by Password.
const PasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" + "-_" + "!@#$%^&*()"

// Generator names accepted by New.
const (
	KindPassword = "password"
	KindBase64   = "base64"
	KindHex      = "hex"
	KindUUID     = "uuid"
	KindJWT      = "jwt"
)

// Kinds lists all generator names in display order.
var Kinds = []string{KindPassword, KindBase64, KindHex, KindUUID, KindJWT}

// Spec selects a generator and its parameters.
// Length is characters for password and bytes for base64 and hex.
type Spec struct {
	Generator string
	Length    int
	Prefix    string
}

func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(s.Generator)
	if NeedsLength(s.Generator) {
		fmt.Fprintf(&b, "(%d)", s.Length)
	}
	if s.Prefix != "" {
		fmt.Fprintf(&b, " prefix=%q", s.Prefix)
	}
	return b.String()
}

// Known reports whether name is a supported generator.
func Known(name string) bool {
	for _, k := range Kinds {
		if k == name {
			return true
		}
	}
	return false
}

// NeedsLength reports whether the generator takes a length parameter.
func NeedsLength(name string) bool {
	switch name {
	case KindPassword, KindBase64, KindHex:
		return true
	}
	return false
}

// New generates a value for spec using randomness from r.
func New(r io.Reader, spec Spec) (string, error) {
	var (
		v   string
		err error
	)
	switch spec.Generator {
	case KindPassword:
		v, err = Password(r, spec.Length)
	case KindBase64:
		v, err = Base64(r, spec.Length)
	case KindHex:
		v, err = Hex(r, spec.Length)
	case KindUUID:
		v, err = UUID(r)
	case KindJWT:
		v, err = JWTLike(r)
	default:
		return "", fmt.Errorf("generate.New: unknown generator %q", spec.Generator)
	}
	if err != nil {
		return "", err
	}
	return spec.Prefix + v, nil
}

// Password returns n characters drawn uniformly from PasswordAlphabet.
func Password(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("generate.Password: length must be positive, got %d", n)
	}
	// Bytes at or above limit would bias the modulo and are discarded.
	limit := 256 - 256%len(PasswordAlphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("generate.Password: %w", err)
		}
		for _, c := range buf {
			if int(c) >= limit {
				continue
			}
			out = append(out, PasswordAlphabet[int(c)%len(PasswordAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// Base64 returns n random bytes as unpadded URL-safe base64.
func Base64(r io.Reader, n int) (string, error) {
	b, err := randomBytes(r, n)
	if err != nil {
		return "", fmt.Errorf("generate.Base64: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Hex returns n random bytes as lowercase hex.
func Hex(r io.Reader, n int) (string, error) {
	b, err := randomBytes(r, n)
	if err != nil {
		return "", fmt.Errorf("generate.Hex: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// UUID returns a random version 4 UUID.
func UUID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate.UUID: %w", err)
	}
	return id.String(), nil
}

// JWTLike returns a header.payload.signature shaped token of random
// base64url parts. It is not a valid JWT; see SignedJWT for that.
func JWTLike(r io.Reader) (string, error) {
	parts := make([]string, 0, 3)
	for _, n := range []int{8, 20, 32} {
		p, err := Base64(r, n)
		if err != nil {
			return "", fmt.Errorf("generate.JWTLike: %w", err)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "."), nil
}

func randomBytes(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewSource returns crypto/rand when seed is nil, otherwise a deterministic
// ChaCha8 stream keyed from the seed. Seeded output is reproducible and must
// not be used for real secrets.
func NewSource(seed *int64) io.Reader {
	if seed == nil {
		return rand.Reader
	}
	key := sha256.Sum256([]byte(strconv.FormatInt(*seed, 10)))
	return mrand.NewChaCha8(key)
}
