package signals

// ReadonlySignal is a memoized derived cell. It evaluates lazily on read and
// only when one of the cells it read last time changed.
type ReadonlySignal[T any] struct {
	node
	value       T
	initialized bool
	getter      func(oldValue T) (T, error)
	equals      func(a, b T) bool
}

// Computed creates a derived cell. The getter receives the previous value (the
// zero value on the first run).
func Computed[T any](rs *ReactiveSystem, getter func(oldValue T) T) *ReadonlySignal[T] {
	return ComputedErr(rs, func(oldValue T) (T, error) {
		return getter(oldValue), nil
	})
}

// ComputedErr is Computed for getters that can fail. A failed evaluation is
// reported and the cell keeps its last good value.
func ComputedErr[T any](rs *ReactiveSystem, getter func(oldValue T) (T, error)) *ReadonlySignal[T] {
	c := &ReadonlySignal[T]{
		node:   newNode(rs, fComputed),
		getter: getter,
		equals: defaultEquals[T],
	}
	c.ref = c
	c.state = cacheDirty
	c.update = c.recompute
	rs.own(c.Dispose)
	return c
}

func (c *ReadonlySignal[T]) Named(name string) *ReadonlySignal[T] {
	c.name = name
	return c
}

// WithEquals replaces the deep equality used to decide whether a recompute
// changed the value. Dependents of a cell whose value did not change are not
// re-evaluated.
func (c *ReadonlySignal[T]) WithEquals(fn func(a, b T) bool) *ReadonlySignal[T] {
	c.equals = fn
	return c
}

func (c *ReadonlySignal[T]) recompute() (bool, error) {
	oldValue := c.value
	newValue, err := c.getter(oldValue)
	if err != nil {
		return false, err
	}
	if c.initialized && c.equals(oldValue, newValue) {
		return false, nil
	}
	c.value = newValue
	c.initialized = true
	return true, nil
}

// Value brings the cell up to date and returns it, subscribing the evaluating
// cell, if any.
func (c *ReadonlySignal[T]) Value() T {
	if !c.rs.guard(c) {
		return c.value
	}
	if c.disposed() {
		c.rs.report(c, disposedError("read", c))
		return c.value
	}
	c.updateIfNecessary()
	c.rs.track(&c.node)
	return c.value
}

func (c *ReadonlySignal[T]) ValueAny() any {
	return c.Value()
}

// Peek returns the memoized value without evaluating or subscribing.
func (c *ReadonlySignal[T]) Peek() T {
	return c.value
}

// Dirty reports whether the next read has to consult the sources.
func (c *ReadonlySignal[T]) Dirty() bool {
	return c.state != cacheClean
}

// Dispose unsubscribes the cell from every source. Idempotent.
func (c *ReadonlySignal[T]) Dispose() {
	c.dispose()
}
