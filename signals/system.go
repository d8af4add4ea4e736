package signals

import (
	"sync/atomic"

	"github.com/petermattis/goid"
	"go.uber.org/zap"
)

// DefaultFlushLimit bounds the number of cell evaluations a single flush may
// perform before it gives up and reports ErrFlushOverflow.
const DefaultFlushLimit = 100_000

type OnErrorFunc func(from SignalAware, err error)

// TickFunc arms the next cooperative tick. It is called once per burst of
// writes with the function that drains the pending cells and should run flush
// after the current synchronous code returns. Without a TickFunc nothing runs
// until the host calls Flush, ends a batch, or a Loop task completes.
type TickFunc func(flush func())

// Immediate is an eager TickFunc for tests and scripts: it flushes inside the
// write that dirtied a watched cell, outside of a batch, so effects run before
// SetValue returns. Hosts wanting deferred evaluation leave the tick unset.
func Immediate(flush func()) {
	flush()
}

// ReactiveSystem owns one reactive graph. It is single-threaded: every cell of a
// system must be created, read and written from the same goroutine (see Loop).
type ReactiveSystem struct {
	logger     *zap.Logger
	onError    OnErrorFunc
	tick       TickFunc
	flushLimit int

	checkGoroutine bool
	gid            atomic.Int64

	nextID      uint64
	activeSub   *node
	activeOwner *Scope
	pauseStack  []*node

	batchDepth int
	scheduled  bool
	flushing   bool
	queue      heightQueue

	// cells evaluating outside of a flush; a flush requested meanwhile
	// waits for the outermost one to return
	evaluating int
	deferred   bool

	root *Watcher
}

type Option func(*ReactiveSystem)

func WithLogger(logger *zap.Logger) Option {
	return func(rs *ReactiveSystem) {
		rs.logger = logger
	}
}

func WithOnError(onError OnErrorFunc) Option {
	return func(rs *ReactiveSystem) {
		rs.onError = onError
	}
}

// WithTick sets how the system schedules its flush. Without it the host calls
// Flush (or uses Batch or a Loop) at its tick boundary.
func WithTick(tick TickFunc) Option {
	return func(rs *ReactiveSystem) {
		rs.tick = tick
	}
}

func WithFlushLimit(limit int) Option {
	return func(rs *ReactiveSystem) {
		if limit > 0 {
			rs.flushLimit = limit
		}
	}
}

// WithGoroutineCheck makes every read, write and flush verify it runs on the
// goroutine that created the system (or the one running its Loop).
func WithGoroutineCheck() Option {
	return func(rs *ReactiveSystem) {
		rs.checkGoroutine = true
	}
}

func NewReactiveSystem(opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		logger:     zap.NewNop(),
		flushLimit: DefaultFlushLimit,
	}
	rs.gid.Store(goid.Get())
	for _, opt := range opts {
		opt(rs)
	}
	rs.root = NewWatcher(rs)
	return rs
}

// Logger returns the logger failures are reported to.
func (rs *ReactiveSystem) Logger() *zap.Logger {
	return rs.logger
}

// Root is the watcher effects created with Effect belong to.
func (rs *ReactiveSystem) Root() *Watcher {
	return rs.root
}

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

// EndBatch closes a batch. Closing the outermost one flushes right away,
// whatever the tick.
func (rs *ReactiveSystem) EndBatch() {
	rs.batchDepth--
	if rs.batchDepth == 0 {
		rs.Flush()
	}
}

// Batch runs cb and flushes once when the outermost batch ends.
func (rs *ReactiveSystem) Batch(cb func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	cb()
}

func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.activeSub)
	rs.activeSub = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.activeSub = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// Untrack runs fn without registering any read as a dependency of the cell
// currently evaluating.
func Untrack[T any](rs *ReactiveSystem, fn func() T) T {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	return fn()
}

// WithScope runs fn with scope as the owner of every effect and computed cell
// created inside it.
func (rs *ReactiveSystem) WithScope(scope *Scope, fn func()) {
	prev := rs.activeOwner
	rs.activeOwner = scope
	defer func() { rs.activeOwner = prev }()
	fn()
}

// Pending returns the number of watched cells waiting for the next flush.
func (rs *ReactiveSystem) Pending() int {
	return rs.queue.len()
}

// Flush evaluates every dirtied watched cell once, lowest height first. Cells
// dirtied while the flush runs are picked up by the same pass. Calls made
// while a batch is open, or from inside a running flush, are no-ops. A call
// made while a cell evaluates runs once that evaluation returns.
func (rs *ReactiveSystem) Flush() {
	if rs.flushing || rs.batchDepth > 0 || !rs.guard(nil) {
		return
	}
	if rs.evaluating > 0 {
		rs.deferred = true
		return
	}
	rs.flushing = true
	rs.scheduled = false
	defer func() { rs.flushing = false }()

	evaluations := 0
	for n := rs.queue.pop(); n != nil; n = rs.queue.pop() {
		evaluations++
		if evaluations > rs.flushLimit {
			rs.queue.discard()
			rs.report(nil, ErrFlushOverflow)
			return
		}
		n.updateIfNecessary()
	}
}

func (rs *ReactiveSystem) resume() {
	if rs.evaluating == 0 && rs.deferred {
		rs.deferred = false
		rs.Flush()
	}
}

func (rs *ReactiveSystem) enqueue(n *node) {
	if rs.queue.push(n) {
		rs.arm()
	}
}

func (rs *ReactiveSystem) arm() {
	if rs.scheduled || rs.flushing || rs.batchDepth > 0 {
		return
	}
	rs.scheduled = true
	if rs.tick != nil {
		rs.tick(rs.Flush)
	}
}

func (rs *ReactiveSystem) track(dep *node) {
	sub := rs.activeSub
	if sub == nil || sub.disposed() || sub.seen == nil {
		return
	}
	if !sub.seen.Add(dep) {
		return
	}
	sub.nextDeps = append(sub.nextDeps, dep)
	dep.subs.Add(sub)
	if dep.height >= sub.height {
		sub.height = dep.height + 1
	}
}

// own registers dispose with the scope that is creating cells right now.
func (rs *ReactiveSystem) own(dispose func()) {
	if rs.activeOwner != nil {
		rs.activeOwner.OnDispose(dispose)
	}
}

func (rs *ReactiveSystem) bindGoroutine() {
	rs.gid.Store(goid.Get())
}

func (rs *ReactiveSystem) guard(from SignalAware) bool {
	if !rs.checkGoroutine || goid.Get() == rs.gid.Load() {
		return true
	}
	rs.report(from, ErrWrongGoroutine)
	return false
}

// Report logs err and hands it to the OnErrorFunc. Collaborators use it for
// failures they recover from themselves.
func (rs *ReactiveSystem) Report(from SignalAware, err error) {
	rs.report(from, err)
}

func (rs *ReactiveSystem) report(from SignalAware, err error) {
	fields := []zap.Field{zap.Error(err)}
	if from != nil {
		n := from.base()
		fields = append(fields,
			zap.Uint64("node", n.id),
			zap.String("kind", n.kind()),
			zap.String("name", n.Name()),
		)
	}
	rs.logger.Error("reactive failure", fields...)

	if rs.onError != nil {
		rs.onError(from, err)
	}
}
