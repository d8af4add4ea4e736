package signals

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Watcher groups the effects and watched computed cells of one component.
// Disposing it drops all of their pending work without touching cells that
// belong to other watchers.
type Watcher struct {
	rs       *ReactiveSystem
	nodes    mapset.Set[*node]
	disposed bool
}

func NewWatcher(rs *ReactiveSystem) *Watcher {
	return &Watcher{
		rs:    rs,
		nodes: mapset.NewThreadUnsafeSet[*node](),
	}
}

// Effect creates an effect owned by this watcher and runs it immediately.
func (w *Watcher) Effect(fn EffectFunc) (stop func()) {
	if w.disposed {
		w.rs.report(nil, ErrDisposed)
		return func() {}
	}
	e := newEffect(w, fn)
	w.nodes.Add(&e.node)
	w.rs.own(e.Dispose)
	e.run()
	return e.Dispose
}

// Watch makes a computed cell eager: whenever it goes stale it is queued and
// re-evaluated on the next flush even if nobody reads it. Watching a plain
// signal has no effect.
func (w *Watcher) Watch(cell SignalAware) {
	n := cell.base()
	if n.update == nil {
		return
	}
	if w.disposed || n.disposed() {
		w.rs.report(cell, disposedError("watch", cell))
		return
	}
	if !w.nodes.Add(n) {
		return
	}
	n.watchers++
	n.flags |= fWatched
	n.updateIfNecessary()
}

// Unwatch reverses Watch.
func (w *Watcher) Unwatch(cell SignalAware) {
	n := cell.base()
	if !w.nodes.Contains(n) || n.flags&fEffect != 0 {
		return
	}
	w.unwatch(n)
}

func (w *Watcher) unwatch(n *node) {
	w.nodes.Remove(n)
	n.watchers--
	if n.watchers <= 0 {
		n.watchers = 0
		n.flags &^= fWatched
		w.rs.queue.remove(n)
		n.detachIfUnused()
	}
}

func (w *Watcher) forget(n *node) {
	w.nodes.Remove(n)
}

// Len returns the number of effects and watched cells.
func (w *Watcher) Len() int {
	return w.nodes.Cardinality()
}

// Pending returns how many of this watcher's cells wait for the next flush.
func (w *Watcher) Pending() int {
	pending := 0
	w.nodes.Each(func(n *node) bool {
		if n.flags&fInQueue != 0 {
			pending++
		}
		return false
	})
	return pending
}

// Dispose disposes every effect of the watcher and unwatches its computed
// cells. Idempotent.
func (w *Watcher) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	for _, n := range w.nodes.ToSlice() {
		if e, ok := n.ref.(*effect); ok {
			e.Dispose()
			continue
		}
		w.unwatch(n)
	}
}
