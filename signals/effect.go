package signals

// Cleanup is returned by an effect body and runs right before the body runs
// again, and once more when the effect is disposed.
type Cleanup func()

type EffectFunc func() Cleanup

// effect is a disposable reactive side effect. Its body runs once on creation
// and again on the flush after any cell it read changed.
type effect struct {
	node
	fn       EffectFunc
	cleanup  Cleanup
	children *Scope
	watcher  *Watcher
}

// Effect creates an effect on the system's root watcher.
func Effect(rs *ReactiveSystem, fn EffectFunc) (stop func()) {
	return rs.root.Effect(fn)
}

// EffectScope runs scopedFn once and returns a function disposing every effect
// and computed cell it created.
func EffectScope(rs *ReactiveSystem, scopedFn func()) (stopScope func()) {
	scope := NewScope()
	rs.own(scope.Dispose)
	rs.WithScope(scope, scopedFn)
	return scope.Dispose
}

func newEffect(w *Watcher, fn EffectFunc) *effect {
	rs := w.rs
	e := &effect{
		node:    newNode(rs, fEffect|fWatched),
		fn:      fn,
		watcher: w,
	}
	e.ref = e
	e.watchers = 1
	if parent := rs.activeSub; parent != nil {
		// effects created by another effect's body run after it
		e.height = parent.height + 1
	}
	e.state = cacheDirty
	e.update = e.runBody
	return e
}

// runBody always runs the previous cleanup, and disposes whatever the previous
// run created, before the body runs again.
func (e *effect) runBody() (bool, error) {
	rs := e.rs
	rs.PauseTracking()
	e.teardown()
	rs.ResumeTracking()

	e.children = NewScope()
	prevOwner := rs.activeOwner
	rs.activeOwner = e.children
	defer func() { rs.activeOwner = prevOwner }()

	cleanup := e.fn()
	if e.disposed() {
		// disposed from inside its own body
		if cleanup != nil {
			cleanup()
		}
		return false, nil
	}
	e.cleanup = cleanup
	return false, nil
}

func (e *effect) teardown() {
	if cleanup := e.cleanup; cleanup != nil {
		e.cleanup = nil
		cleanup()
	}
	if e.children != nil {
		e.children.Dispose()
		e.children = nil
	}
}

// Dispose runs the last cleanup and unregisters the effect. Idempotent.
func (e *effect) Dispose() {
	if !e.dispose() {
		return
	}
	e.watcher.forget(&e.node)
	e.teardown()
}
