package apikey

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// DefaultKey is accepted when no keys are configured and the fallback is allowed.
// It is public knowledge and must never be relied upon outside local setups.
const DefaultKey = "admin1234"

var ErrNoKeys = errors.New("no api keys configured and default key is disabled")

// AllowList holds the API keys that may request tokens.
type AllowList struct {
	keys     [][]byte
	fallback bool
}

// NewAllowList creates an allow-list from the given keys.
// If keys is empty and allowDefault is set, DefaultKey is the only accepted key.
func NewAllowList(keys []string, allowDefault bool) (*AllowList, error) {
	l := &AllowList{}
	for _, k := range keys {
		if k == "" {
			continue
		}
		l.keys = append(l.keys, []byte(k))
	}
	if len(l.keys) == 0 {
		if !allowDefault {
			return nil, ErrNoKeys
		}
		l.keys = [][]byte{[]byte(DefaultKey)}
		l.fallback = true
	}
	return l, nil
}

// ParseList splits a comma separated list of keys, trimming whitespace and dropping empty entries.
func ParseList(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}

// Allowed reports whether key is in the list. The match is exact and case-sensitive.
func (l *AllowList) Allowed(key string) bool {
	if key == "" {
		return false
	}
	presented := []byte(key)
	found := 0
	// compare against every key so timing does not reveal which one matched
	for _, k := range l.keys {
		found |= subtle.ConstantTimeCompare(k, presented)
	}
	return found == 1
}

// UsingFallback reports whether the list only contains DefaultKey because nothing was configured.
func (l *AllowList) UsingFallback() bool {
	return l.fallback
}

// Len returns the number of accepted keys.
func (l *AllowList) Len() int {
	return len(l.keys)
}

// Hints returns masked forms of all accepted keys.
func (l *AllowList) Hints() []string {
	hints := make([]string, 0, len(l.keys))
	for _, k := range l.keys {
		hints = append(hints, Hint(string(k)))
	}
	return hints
}

// Hint masks a key for logs, keeping at most the first two and last two characters.
func Hint(key string) string {
	switch n := len(key); {
	case n == 0:
		return ""
	case n <= 6:
		return strings.Repeat("*", n)
	default:
		return key[:2] + strings.Repeat("*", n-4) + key[n-2:]
	}
}
