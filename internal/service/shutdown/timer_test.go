package shutdown

import (
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestWallTimers fires at the requested moment and can be cancelled beforehand.
func TestWallTimers(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var fired atomic.Int32

		at := time.Now().Add(time.Minute)
		WallTimers{}.Arm(at, func() { fired.Add(1) })

		cancelled := WallTimers{}.Arm(at, func() { fired.Add(100) })
		require.True(t, cancelled.Cancel())

		time.Sleep(59 * time.Second)
		synctest.Wait()
		require.Zero(t, fired.Load())

		time.Sleep(time.Second)
		synctest.Wait()
		require.EqualValues(t, 1, fired.Load())
	})
}
