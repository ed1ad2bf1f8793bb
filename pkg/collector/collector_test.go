package collector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

func TestNoop(t *testing.T) {
	s, err := Noop.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsZero())
}

func TestCollectWithTimeout(t *testing.T) {
	t.Run("partial result kept", func(t *testing.T) {
		c := Func(func(context.Context) (*measurement.SystemStatus, error) {
			return &measurement.SystemStatus{Goroutines: 3}, fmt.Errorf("no load average")
		})
		s, err := CollectWithTimeout(context.Background(), c, time.Second)
		require.Error(t, err)
		assert.Equal(t, int64(3), s.Goroutines)
	})

	t.Run("nil status", func(t *testing.T) {
		c := Func(func(context.Context) (*measurement.SystemStatus, error) {
			return nil, fmt.Errorf("down")
		})
		s, err := CollectWithTimeout(context.Background(), c, 0)
		require.Error(t, err)
		assert.True(t, s.IsZero())
	})

	t.Run("nil collector", func(t *testing.T) {
		s, err := CollectWithTimeout(context.Background(), nil, time.Second)
		require.NoError(t, err)
		assert.True(t, s.IsZero())
	})

	t.Run("timeout drops late result", func(t *testing.T) {
		release := make(chan struct{})
		returned := make(chan struct{})
		c := Func(func(context.Context) (*measurement.SystemStatus, error) {
			defer close(returned)
			<-release
			return &measurement.SystemStatus{Threads: 1}, fmt.Errorf("late and partial")
		})
		s, err := CollectWithTimeout(context.Background(), c, 10*time.Millisecond)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
		assert.NotContains(t, err.Error(), "late and partial")
		assert.True(t, s.IsZero())

		close(release)
		<-returned
		assert.True(t, s.IsZero())
	})
}
