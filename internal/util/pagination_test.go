package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name             string
		page, size       int
		wantFrom, wantLn int
	}{
		{"defaults", 0, 0, 0, 50},
		{"second page", 2, 10, 10, 10},
		{"clamped size", 1, 500, 0, 100},
		{"negative page", -3, 20, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantLn, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 50))
	assert.Equal(t, 1, TotalPages(50, 50))
	assert.Equal(t, 2, TotalPages(51, 50))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}
