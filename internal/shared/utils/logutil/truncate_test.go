package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty string", "", 10, ""},
		{"zero max", "token", 0, "..."},
		{"shorter", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9", 8, "eyJhbGci..."},
		{"multibyte kept whole", "Amélie Poulain", 4, "Amél..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}
