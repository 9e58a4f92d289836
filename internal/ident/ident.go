// Package ident mints the opaque string ids used by the content stores and
// recognizes ids minted by the production backend's larger id space.
package ident

import (
	"strconv"
	"sync"
	"time"
)

// Minter produces time-based decimal string ids (unix milliseconds). Callers
// racing within the same millisecond get strictly increasing values, so ids
// stay unique under concurrent creates while keeping the textual contract.
type Minter struct {
	mu   sync.Mutex
	last int64
}

func (m *Minter) Next() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= m.last {
		now = m.last + 1
	}
	m.last = now

	return strconv.FormatInt(now, 10)
}

// LooksLikeObjectID reports whether s has the shape of a Mongo-style object
// id: exactly 24 hexadecimal characters.
func LooksLikeObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// FallbackKey returns the short id a foreign-looking id is reduced to: its
// last character. The reduction is lossy and can collide across records.
func FallbackKey(s string) string {
	if s == "" {
		return ""
	}
	return s[len(s)-1:]
}
