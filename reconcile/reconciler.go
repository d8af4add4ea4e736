package reconcile

import (
	"github.com/delaneyj/signallist/signals"
	"go.uber.org/zap"
)

// Reconciler keeps the records of one materialized collection between
// updates.
type Reconciler[H any] struct {
	equal  EqualFunc
	hash   HashFunc
	create func(item any, index int) H
	remove func(Record[H])
	logger *zap.Logger

	records []Record[H]
	last    Plan
	updates int
}

type options struct {
	equal  EqualFunc
	hash   HashFunc
	logger *zap.Logger
}

type Option func(*options)

// WithEqual replaces DeepEqual.
func WithEqual(equal EqualFunc) Option {
	return func(o *options) {
		o.equal = equal
	}
}

// WithHash switches to indexed matching. The hash must agree with the
// equality in use.
func WithHash(hash HashFunc) Option {
	return func(o *options) {
		o.hash = hash
	}
}

// WithKey matches items by the value at a property path, indexed.
func WithKey(path string) Option {
	return func(o *options) {
		o.equal = KeyEqual(path)
		o.hash = KeyHash(path)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewReconciler creates a reconciler with no records. remove may be nil.
func NewReconciler[H any](create func(item any, index int) H, remove func(Record[H]), opts ...Option) *Reconciler[H] {
	o := options{
		equal:  DeepEqual,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Reconciler[H]{
		equal:  o.equal,
		hash:   o.hash,
		create: create,
		remove: remove,
		logger: o.logger,
	}
}

// Update reconciles next against the current records and makes the result
// the current records.
func (r *Reconciler[H]) Update(next []any) Plan {
	var plan Plan
	if r.hash != nil {
		plan = DiffIndexed(r.records, next, r.hash, r.equal)
	} else {
		plan = Diff(r.records, next, r.equal)
	}
	r.records = Apply(plan, r.records, r.create, r.remove)
	r.last = plan
	r.updates++

	if ce := r.logger.Check(zap.DebugLevel, "reconciled"); ce != nil {
		s := plan.Stats()
		ce.Write(
			zap.Int("update", r.updates),
			zap.Int("reused", s.Reused),
			zap.Int("created", s.Created),
			zap.Int("removed", s.Removed),
			zap.Int("moved", s.Moved),
		)
	}
	return plan
}

// Records returns the current records in output order.
func (r *Reconciler[H]) Records() []Record[H] {
	return r.records
}

func (r *Reconciler[H]) Handles() []H {
	handles := make([]H, len(r.records))
	for i, rec := range r.records {
		handles[i] = rec.Handle
	}
	return handles
}

// Last returns the plan of the most recent Update.
func (r *Reconciler[H]) Last() Plan {
	return r.last
}

func (r *Reconciler[H]) Updates() int {
	return r.updates
}

// Clear removes every record, in order.
func (r *Reconciler[H]) Clear() {
	records := r.records
	r.records = nil
	if r.remove == nil {
		return
	}
	for _, rec := range records {
		r.remove(rec)
	}
}

// Bind reconciles r against output now and on every flush after output
// changed. create and remove run untracked and outside the effect's
// ownership, so cells they create live as long as their handle. stop disposes
// the effect and clears r.
func Bind[H any](rs *signals.ReactiveSystem, output signals.Reader[[]any], r *Reconciler[H]) (stop func()) {
	stopEffect := signals.Effect(rs, func() signals.Cleanup {
		items := output.Value()
		rs.PauseTracking()
		defer rs.ResumeTracking()
		rs.WithScope(nil, func() {
			r.Update(items)
		})
		return nil
	})
	return func() {
		stopEffect()
		r.Clear()
	}
}
