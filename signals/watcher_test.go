package signals_test

import (
	"testing"

	"github.com/delaneyj/signallist/signals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchMakesComputedEager(t *testing.T) {
	rs := signals.NewReactiveSystem()

	n := signals.Signal(rs, 1)
	runs := 0
	double := signals.Computed(rs, func(int) int {
		runs++
		return n.Value() * 2
	})

	w := signals.NewWatcher(rs)
	w.Watch(double)
	w.Watch(n)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, w.Len())

	n.SetValue(2)
	assert.Equal(t, 1, w.Pending())
	rs.Flush()
	assert.Equal(t, 2, runs)
	assert.Equal(t, 4, double.Peek())

	w.Unwatch(double)
	n.SetValue(3)
	assert.Equal(t, 0, rs.Pending())
	assert.Equal(t, 2, runs)
}

func TestWatcherDisposeDropsPendingWork(t *testing.T) {
	var errs []error
	rs := signals.NewReactiveSystem(signals.WithOnError(func(from signals.SignalAware, err error) {
		errs = append(errs, err)
	}))

	n := signals.Signal(rs, 1)
	double := signals.Computed(rs, func(int) int { return n.Value() * 2 })

	mine := signals.NewWatcher(rs)
	other := signals.NewWatcher(rs)

	mineRuns, otherRuns := 0, 0
	mine.Watch(double)
	mine.Effect(func() signals.Cleanup {
		mineRuns++
		double.Value()
		return nil
	})
	other.Effect(func() signals.Cleanup {
		otherRuns++
		n.Value()
		return nil
	})

	n.SetValue(2)
	assert.Equal(t, 2, mine.Pending())
	assert.Equal(t, 1, other.Pending())

	mine.Dispose()
	mine.Dispose()
	assert.Equal(t, 0, mine.Pending())
	assert.Equal(t, 1, rs.Pending())

	rs.Flush()
	assert.Equal(t, 1, mineRuns)
	assert.Equal(t, 2, otherRuns)

	mine.Effect(func() signals.Cleanup { return nil })
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], signals.ErrDisposed)
}

func TestScopeDisposesOnceInReverse(t *testing.T) {
	scope := signals.NewScope()
	order := []int{}
	for i := 1; i <= 3; i++ {
		scope.OnDispose(func() { order = append(order, i) })
	}

	scope.Dispose()
	scope.Dispose()
	assert.True(t, scope.Disposed())
	assert.Equal(t, []int{3, 2, 1}, order)

	scope.OnDispose(func() { order = append(order, 4) })
	assert.Equal(t, []int{3, 2, 1, 4}, order)
}

func TestWithScopeOwnsComputedCells(t *testing.T) {
	rs := newSystem(t)

	n := signals.Signal(rs, 1)
	scope := signals.NewScope()
	var c *signals.ReadonlySignal[int]
	rs.WithScope(scope, func() {
		c = signals.Computed(rs, func(int) int { return n.Value() + 1 })
	})
	assert.Equal(t, 2, c.Value())

	scope.Dispose()
	n.SetValue(5)
	assert.False(t, c.Dirty())
	assert.Equal(t, 2, c.Peek())
}
