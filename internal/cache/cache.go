package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a byte-oriented TTL cache sitting in front of idempotent fetches.
// It is an optimization only: results must be identical with and without it.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from an operation name and its exact parameters.
// Parameters are hashed so that URLs, tokens and paths never leak into file
// names.
func Key(op string, params ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(params, "\x00")))
	return "projstat:v1:" + op + ":" + hex.EncodeToString(hash[:])
}

// Nop is a Cache that stores nothing, used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
