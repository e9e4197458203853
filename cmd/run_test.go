package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseShardFlag(t *testing.T) {
	tests := []struct {
		name      string
		shard     string
		wantIndex int
		wantTotal int
	}{
		{"empty means the whole run", "", 0, 1},
		{"first of three", "0/3", 0, 3},
		{"last of three", "2/3", 2, 3},
		{"index out of range falls back", "3/3", 0, 1},
		{"negative index falls back", "-1/3", 0, 1},
		{"zero total falls back", "0/0", 0, 1},
		{"garbage falls back", "abc", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, total := parseShardFlag(tt.shard)
			require.Equal(t, tt.wantIndex, index)
			require.Equal(t, tt.wantTotal, total)
		})
	}
}
