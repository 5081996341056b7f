package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Second, "2h 5s"},
		{49*time.Hour + 30*time.Minute, "2d 1h 30m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUptime(tt.in))
		})
	}
}

func TestGetStats(t *testing.T) {
	stats := GetStats()
	assert.NotEmpty(t, stats.Platform)
	assert.Positive(t, stats.Goroutines)
}
