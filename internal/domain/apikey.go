package domain

import (
	"time"
)

// Tier is the permission level attached to an API key.
type Tier string

// Known tiers. Only TierProduction may access tier-gated operations.
const (
	TierProduction  Tier = "production"
	TierDevelopment Tier = "development"
	TierTesting     Tier = "testing"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierProduction, TierDevelopment, TierTesting:
		return true
	default:
		return false
	}
}

// KeyPrefixLength is how much of a key may appear in logs and listings.
const KeyPrefixLength = 8

// APIKey is a registered credential.
type APIKey struct {
	Key       string     `json:"key"`
	Tier      Tier       `json:"tier"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed"`
}

// Masked returns a copy with the key reduced to its prefix.
func (k APIKey) Masked() APIKey {
	k.Key = KeyPrefix(k.Key) + "..."
	return k
}

// KeyPrefix returns at most KeyPrefixLength leading characters of key.
func KeyPrefix(key string) string {
	runes := []rune(key)
	if len(runes) <= KeyPrefixLength {
		return key
	}
	return string(runes[:KeyPrefixLength])
}
