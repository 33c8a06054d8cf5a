package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/retailhub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewRequestIDUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := idx.NewRequestID()
		require.True(t, strings.HasPrefix(id, "req_"))
		require.True(t, idx.ValidRequestID(id))
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestRequestIDsSortByTime(t *testing.T) {
	t.Parallel()

	early := idx.NewRequestIDAt(time.Unix(1700000000, 0).UTC())
	late := idx.NewRequestIDAt(time.Unix(1700000100, 0).UTC())
	require.Less(t, early, late)
}

func TestRequestIDTime(t *testing.T) {
	t.Parallel()

	tm := time.Unix(1700000000, 0).UTC()
	require.WithinDuration(t, tm, idx.RequestIDTime(idx.NewRequestIDAt(tm)), time.Millisecond)

	require.True(t, idx.RequestIDTime("").IsZero())
	require.True(t, idx.RequestIDTime("req_not-a-ulid").IsZero())
	require.True(t, idx.RequestIDTime("01HZX3").IsZero())
}

func TestValidRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{"req_01hzx3k6p1", true},
		{"trace-abc.123", true},
		{"", false},
		{"has space", false},
		{"inject\nline", false},
		{strings.Repeat("a", idx.MaxRequestIDLen), true},
		{strings.Repeat("a", idx.MaxRequestIDLen+1), false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, idx.ValidRequestID(tt.id), "id %q", tt.id)
	}
}
