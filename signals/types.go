package signals

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

type cacheState uint8

const (
	cacheClean cacheState = iota // value is valid, no need to recompute
	cacheCheck                   // a transitive source changed, check sources before reuse
	cacheDirty                   // a direct source changed, value must be recomputed
)

type nodeFlags uint16

const (
	fComputed nodeFlags = 1 << iota
	fEffect
	fWatched
	fComputing
	fDisposed
	fInQueue
)

// SignalAware is implemented by every cell of a ReactiveSystem: writeable
// signals, readonly (computed) signals and effects.
type SignalAware interface {
	isSignalAware()
	base() *node
	ID() uint64
	Name() string
}

// node is the graph record shared by all cells. Dependencies are kept in read
// order so a check pass visits sources in the order the last evaluation did.
type node struct {
	id     uint64
	name   string
	rs     *ReactiveSystem
	ref    SignalAware
	flags  nodeFlags
	state  cacheState
	height int

	deps []*node
	subs mapset.Set[*node]

	// collected while the node evaluates
	nextDeps []*node
	seen     mapset.Set[*node]

	watchers int
	queueSeq uint64

	update func() (changed bool, err error)
}

func newNode(rs *ReactiveSystem, flags nodeFlags) node {
	rs.nextID++
	return node{
		id:    rs.nextID,
		rs:    rs,
		flags: flags,
		subs:  mapset.NewThreadUnsafeSet[*node](),
	}
}

func (n *node) isSignalAware() {}

func (n *node) base() *node { return n }

// ID returns the identifier of the cell, unique within its ReactiveSystem.
func (n *node) ID() uint64 { return n.id }

// Name returns the name given with Named, or kind#id.
func (n *node) Name() string {
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("%s#%d", n.kind(), n.id)
}

func (n *node) kind() string {
	switch {
	case n.flags&fEffect != 0:
		return "effect"
	case n.flags&fComputed != 0:
		return "computed"
	default:
		return "signal"
	}
}

func (n *node) disposed() bool {
	return n.flags&fDisposed != 0
}

// stale marks the node and, transitively, its subscribers. Direct subscribers of
// a written signal receive cacheDirty, everything further down cacheCheck.
func (n *node) stale(state cacheState) {
	if n.state >= state || n.disposed() {
		return
	}
	n.state = state
	if n.flags&fWatched != 0 {
		n.rs.enqueue(n)
	}
	n.subs.Each(func(sub *node) bool {
		sub.stale(cacheCheck)
		return false
	})
}

// notifySubs is called after a recompute produced a different value. A
// subscriber evaluating right now that has not read n yet in this run is the
// one pulling the new value, so it is left alone.
func (n *node) notifySubs() {
	n.subs.Each(func(sub *node) bool {
		if sub.flags&fComputing != 0 && sub.seen != nil && !sub.seen.Contains(n) {
			return false
		}
		if sub.state != cacheDirty && !sub.disposed() {
			sub.state = cacheDirty
			if sub.flags&fWatched != 0 {
				n.rs.enqueue(sub)
			}
		}
		return false
	})
}

// updateIfNecessary brings the node up to date. A node in cacheCheck asks its
// sources, in read order, to update; the first source that actually changed
// marks this node dirty and the remaining sources are left alone.
func (n *node) updateIfNecessary() {
	if n.update == nil || n.disposed() {
		return
	}
	if n.flags&fComputing != 0 {
		panic(newCycleError(n))
	}

	if n.state == cacheCheck {
		for _, dep := range n.deps {
			dep.updateIfNecessary()
			if n.state == cacheDirty {
				break
			}
		}
		if n.state == cacheCheck {
			n.state = cacheClean
		}
	}

	if n.state == cacheDirty {
		n.run()
	}
}

// run evaluates the node with dependency tracking enabled.
func (n *node) run() {
	rs := n.rs
	prevSub := rs.activeSub

	n.state = cacheClean
	n.flags |= fComputing
	n.nextDeps = nil
	n.seen = mapset.NewThreadUnsafeSet[*node]()
	rs.activeSub = n
	rs.evaluating++

	failed := true
	changed := false
	var err error

	defer func() {
		r := recover()

		rs.activeSub = prevSub
		rs.evaluating--
		n.flags &^= fComputing
		n.endTracking(failed || err != nil)

		switch {
		case r != nil:
			n.handlePanic(r)
		case err != nil:
			rs.report(n.ref, &EvalError{Cell: n.Name(), Err: err})
		case changed:
			n.notifySubs()
		}
		rs.resume()
	}()

	changed, err = n.update()
	failed = false
}

func (n *node) handlePanic(r any) {
	if cycle, ok := r.(*CycleError); ok {
		n.state = cacheDirty
		if cycle.origin != n {
			cycle.Path = append(cycle.Path, n.Name())
			panic(cycle)
		}
		cycle.close(n)
		n.rs.report(n.ref, cycle)
		return
	}
	n.rs.report(n.ref, &EvalError{Cell: n.Name(), Panic: r})
}

// endTracking swaps the dependencies collected during the last evaluation in.
// Sources that were not read again are unsubscribed. A failed evaluation keeps
// the previous links as well, so the cell still hears about the source that
// may fix it.
func (n *node) endTracking(failed bool) {
	next := n.nextDeps
	if failed {
		for _, dep := range n.deps {
			if n.seen.Add(dep) {
				next = append(next, dep)
			}
		}
	} else {
		for _, dep := range n.deps {
			if !n.seen.Contains(dep) {
				dep.unsubscribe(n)
			}
		}
	}
	n.deps = next
	n.nextDeps = nil
	n.seen = nil

	if n.disposed() {
		n.unlink()
	}
}

func (n *node) unlink() {
	deps := n.deps
	n.deps = nil
	for _, dep := range deps {
		dep.unsubscribe(n)
	}
}

// unsubscribe drops sub. A computed cell left with no subscribers and no
// watcher lets go of its own sources too and becomes dirty, so its next read
// recomputes from scratch.
func (n *node) unsubscribe(sub *node) {
	n.subs.Remove(sub)
	n.detachIfUnused()
}

func (n *node) detachIfUnused() {
	if n.update == nil || n.flags&(fWatched|fComputing|fEffect|fDisposed) != 0 || n.subs.Cardinality() > 0 {
		return
	}
	if len(n.deps) == 0 {
		return
	}
	n.state = cacheDirty
	n.unlink()
}

func (n *node) dispose() bool {
	if n.disposed() {
		return false
	}
	n.flags |= fDisposed
	n.rs.queue.remove(n)
	if n.flags&fComputing == 0 {
		n.unlink()
	}
	return true
}
