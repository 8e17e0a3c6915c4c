package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogTimes(t *testing.T) {
	t.Parallel()

	times := catalogTimes()

	// 10:00 to 17:00 in 30-minute steps is 14 buckets.
	require.Len(t, times, 14)
	assert.Equal(t, [2]string{"10:00", "10:30"}, times[0])
	assert.Equal(t, [2]string{"16:30", "17:00"}, times[len(times)-1])

	// Buckets tile the window with no gaps.
	for i := 1; i < len(times); i++ {
		assert.Equal(t, times[i-1][1], times[i][0])
	}
}
