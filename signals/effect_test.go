package signals_test

import (
	"fmt"
	"testing"

	"github.com/delaneyj/signallist/signals"
	"github.com/stretchr/testify/assert"
)

// should clear subscriptions when untracked by all subscribers
func TestEffectClearSubsWhenUntracked(t *testing.T) {
	rs := newSystem(t)

	bRunTimes := 0
	a := signals.Signal(rs, 1)
	b := signals.Computed(rs, func(oldValue int) int {
		bRunTimes++
		return a.Value() * 2
	})
	stopEffect := signals.Effect(rs, func() signals.Cleanup {
		b.Value()
		return nil
	})

	assert.Equal(t, 1, bRunTimes)
	a.SetValue(2)
	assert.Equal(t, 2, bRunTimes)
	assert.Equal(t, 1, signals.SubscriberCount(a))
	assert.Equal(t, 1, signals.SubscriberCount(b))

	stopEffect()
	assert.Equal(t, 0, signals.SubscriberCount(a))
	assert.Equal(t, 0, signals.SubscriberCount(b))
	assert.Equal(t, 0, signals.SourceCount(b))
	assert.True(t, b.Dirty())

	a.SetValue(3)
	assert.Equal(t, 2, bRunTimes)

	// reading again subscribes b to a again
	assert.Equal(t, 6, b.Value())
	assert.Equal(t, 3, bRunTimes)
	assert.Equal(t, 1, signals.SubscriberCount(a))
}

func TestShouldNotRunUntrackedInnerEffect(t *testing.T) {
	rs := newSystem(t)

	a := signals.Signal(rs, 3)
	b := signals.Computed(rs, func(oldValue bool) bool {
		return a.Value() > 0
	})

	signals.Effect(rs, func() signals.Cleanup {
		if b.Value() {
			signals.Effect(rs, func() signals.Cleanup {
				if a.Value() == 0 {
					assert.Fail(t, "inner effect ran after its parent dropped it")
				}
				return nil
			})
		}
		return nil
	})

	for i := 0; i < 3; i++ {
		a.Update(func(v int) int { return v - 1 })
	}
}

func TestShouldRunOuterEffectFirst(t *testing.T) {
	rs := newSystem(t)

	a := signals.Signal(rs, 1)
	b := signals.Signal(rs, 1)

	signals.Effect(rs, func() signals.Cleanup {
		if a.Value() != 0 {
			signals.Effect(rs, func() signals.Cleanup {
				if a.Value() == 0 {
					assert.Fail(t, "inner effect ran before the outer one")
				}
				b.Value()
				return nil
			})
		}
		return nil
	})

	rs.StartBatch()
	a.SetValue(0)
	b.SetValue(0)
	rs.EndBatch()
}

func TestShouldNotTriggerInnerEffectWhenResolveMaybeDirty(t *testing.T) {
	rs := newSystem(t)

	a := signals.Signal(rs, 0)
	b := signals.Computed(rs, func(oldValue bool) bool {
		return a.Value()%2 == 0
	})

	innerTriggerTimes := 0
	signals.Effect(rs, func() signals.Cleanup {
		signals.Effect(rs, func() signals.Cleanup {
			b.Value()
			innerTriggerTimes++
			return nil
		})
		return nil
	})

	a.SetValue(2)
	assert.Equal(t, 1, innerTriggerTimes)
}

func TestShouldTriggerInnerEffectsInSequence(t *testing.T) {
	rs := newSystem(t)

	a := signals.Signal(rs, 0)
	b := signals.Signal(rs, 0)
	c := signals.Computed(rs, func(oldValue int) int {
		return a.Value() - b.Value()
	})
	order := []string{}

	signals.Effect(rs, func() signals.Cleanup {
		c.Value()

		signals.Effect(rs, func() signals.Cleanup {
			order = append(order, "first inner")
			a.Value()
			return nil
		})

		signals.Effect(rs, func() signals.Cleanup {
			order = append(order, "last inner")
			a.Value()
			b.Value()
			return nil
		})
		return nil
	})

	order = order[:0]
	rs.Batch(func() {
		b.SetValue(1)
		a.SetValue(1)
	})

	assert.Equal(t, []string{"first inner", "last inner"}, order)
}

func TestShouldTriggerInnerEffectsInSequenceInEffectScope(t *testing.T) {
	rs := newSystem(t)

	a := signals.Signal(rs, 0)
	b := signals.Signal(rs, 0)
	order := []string{}

	signals.EffectScope(rs, func() {
		signals.Effect(rs, func() signals.Cleanup {
			order = append(order, "first inner")
			a.Value()
			return nil
		})

		signals.Effect(rs, func() signals.Cleanup {
			order = append(order, "last inner")
			a.Value()
			b.Value()
			return nil
		})
	})

	order = order[:0]
	rs.Batch(func() {
		b.SetValue(1)
		a.SetValue(1)
	})

	assert.Equal(t, []string{"first inner", "last inner"}, order)
}

func TestShouldCustomEffectSupportBatch(t *testing.T) {
	rs := newSystem(t)

	batchEffect := func(fn func()) func() {
		return signals.Effect(rs, func() signals.Cleanup {
			rs.StartBatch()
			defer rs.EndBatch()
			fn()
			return nil
		})
	}

	logs := []string{}
	a := signals.Signal(rs, 0)
	b := signals.Signal(rs, 0)

	aa := signals.Computed(rs, func(oldValue int) int {
		logs = append(logs, "aa-0")
		if a.Value() == 0 {
			b.SetValue(1)
		}
		logs = append(logs, "aa-1")
		return 0
	})

	bb := signals.Computed(rs, func(oldValue int) int {
		logs = append(logs, "bb")
		return b.Value()
	})

	batchEffect(func() { bb.Value() })
	batchEffect(func() { aa.Value() })

	assert.Equal(t, []string{"bb", "aa-0", "aa-1", "bb"}, logs)
}

func TestShouldNotTriggerAfterStop(t *testing.T) {
	rs := newSystem(t)

	count := signals.Signal(rs, 0)
	triggers := 0

	stopScope := signals.EffectScope(rs, func() {
		signals.Effect(rs, func() signals.Cleanup {
			triggers++
			count.Value()
			return nil
		})
	})

	assert.Equal(t, 1, triggers)
	count.SetValue(2)
	assert.Equal(t, 2, triggers)
	stopScope()
	count.SetValue(3)
	assert.Equal(t, 2, triggers)
}

func TestEffectCleanupOrdering(t *testing.T) {
	rs := newManualSystem(t)

	count := signals.Signal(rs, 0)
	log := []string{}
	stop := signals.Effect(rs, func() signals.Cleanup {
		v := count.Value()
		log = append(log, fmt.Sprintf("run %d", v))
		return func() {
			log = append(log, fmt.Sprintf("cleanup %d", v))
		}
	})

	count.SetValue(1)
	// nothing runs before the tick
	assert.Equal(t, []string{"run 0"}, log)
	rs.Flush()
	count.SetValue(2)
	rs.Flush()
	stop()
	stop()

	assert.Equal(t, []string{
		"run 0", "cleanup 0",
		"run 1", "cleanup 1",
		"run 2", "cleanup 2",
	}, log)
}

func TestEffectCleanupReadsAreNotTracked(t *testing.T) {
	rs := newSystem(t)

	trigger := signals.Signal(rs, 0)
	other := signals.Signal(rs, 0)
	runs := 0
	signals.Effect(rs, func() signals.Cleanup {
		runs++
		trigger.Value()
		return func() { other.Value() }
	})

	trigger.SetValue(1)
	assert.Equal(t, 2, runs)
	other.SetValue(1)
	assert.Equal(t, 2, runs)
}

func TestEffectRerunDisposesNestedCells(t *testing.T) {
	rs := newSystem(t)

	src := signals.Signal(rs, 1)
	var inner *signals.ReadonlySignal[int]
	signals.Effect(rs, func() signals.Cleanup {
		src.Value()
		inner = signals.Computed(rs, func(int) int { return src.Peek() * 2 })
		inner.Value()
		return nil
	})

	first := inner
	src.SetValue(2)
	assert.NotSame(t, first, inner)
	assert.Equal(t, 4, inner.Peek())
	assert.Equal(t, 2, first.Peek())
}

func TestEffectDisposedInsideItsBody(t *testing.T) {
	rs := newSystem(t)

	n := signals.Signal(rs, 0)
	cleanups, runs := 0, 0
	var stop func()
	stop = signals.Effect(rs, func() signals.Cleanup {
		runs++
		if n.Value() > 0 {
			stop()
		}
		return func() { cleanups++ }
	})

	n.SetValue(1)
	n.SetValue(2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, cleanups)
}

func TestEffectsRunOnFlushWithoutTick(t *testing.T) {
	rs := signals.NewReactiveSystem()

	n := signals.Signal(rs, 0)
	seen := []int{}
	signals.Effect(rs, func() signals.Cleanup {
		seen = append(seen, n.Value())
		return nil
	})

	n.SetValue(1)
	n.SetValue(2)
	assert.Equal(t, []int{0}, seen)
	assert.Equal(t, 1, rs.Pending())

	rs.Flush()
	assert.Equal(t, []int{0, 2}, seen)
	assert.Equal(t, 0, rs.Pending())
}

func TestTypedHelpers(t *testing.T) {
	rs := newSystem(t)

	first := signals.Signal(rs, "Ada")
	last := signals.Signal(rs, "Lovelace")
	full := signals.Computed2(rs, first, last, func(f, l string) string {
		return f + " " + l
	})

	got := []string{}
	stop := signals.Effect1(rs, full, func(name string) signals.Cleanup {
		got = append(got, name)
		return nil
	})
	defer stop()

	first.SetValue("Augusta")
	assert.Equal(t, []string{"Ada Lovelace", "Augusta Lovelace"}, got)
}
