// Package idx generates the lexicographically sortable identifiers used to
// correlate dashboard requests with backend calls.
package idx

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestIDHeader is the header carrying a request correlation id, both on
// inbound dashboard requests and outbound backend calls.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDPrefix = "req_"

	// MaxRequestIDLen caps inbound ids accepted from callers.
	MaxRequestIDLen = 64
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewRequestID returns a fresh request correlation id.
func NewRequestID() string {
	return NewRequestIDAt(time.Now().UTC())
}

// NewRequestIDAt returns a request id stamped with t, useful for tests.
func NewRequestIDAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(t), entropy)
	return requestIDPrefix + strings.ToLower(u.String())
}

// RequestIDTime returns the time embedded in an id from NewRequestID, or the
// zero time for anything else.
func RequestIDTime(id string) time.Time {
	raw, ok := strings.CutPrefix(id, requestIDPrefix)
	if !ok {
		return time.Time{}
	}
	u, err := ulid.ParseStrict(strings.ToUpper(raw))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}

// ValidRequestID reports whether a caller-supplied id is safe to log and
// forward: at most MaxRequestIDLen characters of [A-Za-z0-9._-].
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
