package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNanoseconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.0ns"},
		{500, "500.0ns"},
		{1000, "1000.0ns"},
		{1100, "1.1us"},
		{time.Millisecond, "1000.0us"},
		{2 * time.Millisecond, "2.0ms"},
		{time.Second, "1000.0ms"},
		{1100 * time.Millisecond, "1.1s"},
		{2 * time.Second, "2.0s"},
		{time.Minute, "60.0s"},
		{2 * time.Minute, "2.0min"},
		{65 * time.Minute, "65.0min"},
		{90 * time.Minute, "1.5h"},
		{3 * time.Hour, "3.0h"},
		{-2 * time.Second, "-2.0s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in))
		})
	}
}

func TestRateAndIterations(t *testing.T) {
	assert.Equal(t, "1.0/s", Rate(1))
	assert.Equal(t, "588.2/s", Rate(588.235))
	assert.Equal(t, "3", Iterations(3, 0))
	assert.Equal(t, "1/2", Iterations(1, 2))
}
