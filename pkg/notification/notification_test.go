package notification

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()

		before := time.Now().UnixMilli()
		id := NewID()
		after := time.Now().UnixMilli()

		parts := strings.SplitN(id, "-", 2)
		require.Len(t, parts, 2)

		ms, err := strconv.ParseInt(parts[0], 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ms, before)
		assert.LessOrEqual(t, ms, after)
		assert.Len(t, parts[1], 8)
	})

	t.Run("collision resistance", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			id := NewID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	})
}

func TestType_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  Type
		want bool
	}{
		{TypeInfo, true},
		{TypeSuccess, true},
		{TypeWarning, true},
		{TypeError, true},
		{Type("debug"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Valid(), "type %q", tt.typ)
	}
}
