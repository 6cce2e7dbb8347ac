package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundUp(t *testing.T) {
	tests := []struct {
		name string
		n, m int
		want int
	}{
		{"already aligned", 32, 16, 32},
		{"zero", 0, 16, 0},
		{"one below boundary", 15, 16, 16},
		{"one above boundary", 17, 16, 32},
		{"word alignment", 5, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundUp(tt.n, tt.m))
		})
	}
}

func TestRoundDown(t *testing.T) {
	tests := []struct {
		name string
		n, m int
		want int
	}{
		{"already aligned", 32, 16, 32},
		{"one above boundary", 17, 16, 16},
		{"one below boundary", 15, 16, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundDown(tt.n, tt.m))
		})
	}
}

func TestWordSize(t *testing.T) {
	ws := WordSize()
	assert.True(t, ws == 4 || ws == 8, "word size should be 4 or 8, got %d", ws)
}
