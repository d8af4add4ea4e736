package signals

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"go.uber.org/zap"
)

// Loop owns a ReactiveSystem from a single goroutine. Every posted task is one
// synchronous burst of reads and writes and is followed by exactly one flush,
// which gives effects the run-after-the-current-task timing of a microtask
// queue. Other goroutines (network callbacks, timers) re-enter the graph only
// through Post.
type Loop struct {
	rs    *ReactiveSystem
	tasks chan func()

	// tasks posted from the loop goroutine itself
	local []func()
	gid   atomic.Int64

	done     chan struct{}
	doneOnce sync.Once
}

func NewLoop(rs *ReactiveSystem, buffer int) *Loop {
	l := &Loop{
		rs:    rs,
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	l.gid.Store(-1)
	return l
}

// Post queues task. It reports false once the loop has stopped.
func (l *Loop) Post(task func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	if goid.Get() == l.gid.Load() {
		l.local = append(l.local, task)
		return true
	}
	select {
	case l.tasks <- task:
		return true
	case <-l.done:
		return false
	}
}

// Run processes tasks until ctx ends. The calling goroutine becomes the owner
// of the system for the duration.
func (l *Loop) Run(ctx context.Context) error {
	l.gid.Store(goid.Get())
	l.rs.bindGoroutine()
	defer l.doneOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			l.runTask(task)
			for len(l.local) > 0 {
				next := l.local[0]
				l.local = l.local[1:]
				l.runTask(next)
			}
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) runTask(task func()) {
	defer l.rs.Flush()
	defer func() {
		if r := recover(); r != nil {
			l.rs.logger.Error("loop task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// BindContext disposes scope on the loop once ctx ends. Disposing the scope
// first releases the binding.
func (l *Loop) BindContext(ctx context.Context, scope *Scope) {
	released := make(chan struct{})
	scope.OnDispose(func() { close(released) })
	go func() {
		select {
		case <-ctx.Done():
			l.Post(scope.Dispose)
		case <-released:
		case <-l.done:
		}
	}()
}
