package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/suteetoe/cakeorders/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeHMAC   = "hmac"
	SchemeBcrypt = "bcrypt"
)

// Hasher hashes passwords and checks candidates against stored hashes.
// Verify never panics; malformed hashes simply do not match.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// HMACHasher is a deterministic keyed hash: the same password always yields the
// same hex digest under a fixed secret.
type HMACHasher struct {
	key []byte
}

// NewHMACHasher returns an HMAC-SHA256 hasher keyed with secret
func NewHMACHasher(secret string) *HMACHasher {
	return &HMACHasher{key: []byte(secret)}
}

func (h *HMACHasher) Hash(password string) (string, error) {
	return hex.EncodeToString(h.sum(password)), nil
}

func (h *HMACHasher) Verify(password, hash string) bool {
	want, err := hex.DecodeString(hash)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	return subtle.ConstantTimeCompare(h.sum(password), want) == 1
}

func (h *HMACHasher) sum(password string) []byte {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// BcryptHasher stores salted bcrypt hashes. Hashes are not deterministic, so it
// only suits deployments that never compare hashes directly.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher; a cost of 0 uses bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewHasher builds the hasher selected by the auth configuration
func NewHasher(cfg config.AuthConfig) (Hasher, error) {
	switch cfg.HashScheme {
	case "", SchemeHMAC:
		return NewHMACHasher(cfg.SecretKey), nil
	case SchemeBcrypt:
		return NewBcryptHasher(0), nil
	default:
		return nil, fmt.Errorf("unknown hash scheme %q", cfg.HashScheme)
	}
}
