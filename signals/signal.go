package signals

import "reflect"

// Reader is implemented by every readable cell.
type Reader[T any] interface {
	SignalAware
	Value() T
	Peek() T
}

// AnyReader lets untyped collaborators, such as a pipeline source, read a cell
// without knowing its type parameter.
type AnyReader interface {
	SignalAware
	ValueAny() any
}

func defaultEquals[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

type WriteableSignal[T any] struct {
	node
	value  T
	equals func(a, b T) bool
}

// Signal creates a state cell holding initialValue.
func Signal[T any](rs *ReactiveSystem, initialValue T) *WriteableSignal[T] {
	s := &WriteableSignal[T]{
		node:   newNode(rs, 0),
		value:  initialValue,
		equals: defaultEquals[T],
	}
	s.ref = s
	return s
}

// Named sets the name used in logs and errors.
func (s *WriteableSignal[T]) Named(name string) *WriteableSignal[T] {
	s.name = name
	return s
}

// WithEquals replaces the deep equality used to decide whether a write changes
// the value.
func (s *WriteableSignal[T]) WithEquals(fn func(a, b T) bool) *WriteableSignal[T] {
	s.equals = fn
	return s
}

// Value returns the current value and subscribes the evaluating cell, if any.
func (s *WriteableSignal[T]) Value() T {
	if !s.rs.guard(s) {
		return s.value
	}
	if s.disposed() {
		s.rs.report(s, disposedError("read", s))
		return s.value
	}
	s.rs.track(&s.node)
	return s.value
}

func (s *WriteableSignal[T]) ValueAny() any {
	return s.Value()
}

// Peek returns the current value without subscribing.
func (s *WriteableSignal[T]) Peek() T {
	return s.value
}

// SetValue stores v. When v differs from the current value every dependent is
// marked stale and the watched ones are queued for the next flush; nothing is
// re-evaluated synchronously.
func (s *WriteableSignal[T]) SetValue(v T) {
	if !s.rs.guard(s) {
		return
	}
	if s.disposed() {
		s.rs.report(s, disposedError("write", s))
		return
	}
	if s.equals(s.value, v) {
		return
	}
	s.value = v

	// the tick is armed once the whole subgraph is marked
	rs := s.rs
	rs.batchDepth++
	s.subs.Each(func(sub *node) bool {
		sub.stale(cacheDirty)
		return false
	})
	rs.batchDepth--
	if rs.batchDepth == 0 && rs.queue.len() > 0 {
		rs.arm()
	}
}

// Update writes fn applied to the current value.
func (s *WriteableSignal[T]) Update(fn func(old T) T) {
	s.SetValue(fn(s.value))
}

// Dispose releases every dependent. Later reads and writes are reported and
// otherwise ignored.
func (s *WriteableSignal[T]) Dispose() {
	if !s.dispose() {
		return
	}
	me := &s.node
	s.subs.Each(func(sub *node) bool {
		sub.deps = removeNode(sub.deps, me)
		return false
	})
	s.subs.Clear()
}

func removeNode(nodes []*node, target *node) []*node {
	for i, n := range nodes {
		if n == target {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}
