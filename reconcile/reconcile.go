// Package reconcile matches a new ordered collection against the handles
// materialized for the previous one. Matching is by content, first match wins,
// so a handle whose source item reappears anywhere in the new collection is
// reused instead of being destroyed and created again.
package reconcile

import (
	"reflect"

	"github.com/delaneyj/signallist/internal/property"
)

// Record ties an output handle to the source item it was created for.
type Record[H any] struct {
	Handle H
	Source any
}

// EqualFunc decides whether a previous source item and a new item have the
// same content.
type EqualFunc func(prev, next any) bool

// DeepEqual is the default content equality.
func DeepEqual(prev, next any) bool {
	return reflect.DeepEqual(prev, next)
}

// KeyEqual compares the values found at a property path, e.g. "id".
func KeyEqual(path string) EqualFunc {
	return func(prev, next any) bool {
		a, aok := property.Get(prev, path)
		b, bok := property.Get(next, path)
		return aok && bok && reflect.DeepEqual(a, b)
	}
}

// Diff computes the plan turning prev into next without side effects. For
// each new item the unconsumed previous records are scanned in order and the
// first equal one is reused.
func Diff[H any](prev []Record[H], next []any, equal EqualFunc) Plan {
	if equal == nil {
		equal = DeepEqual
	}
	consumed := make([]bool, len(prev))
	plan := Plan{Steps: make([]Step, len(next))}
	for to, item := range next {
		from := -1
		for i := range prev {
			if !consumed[i] && equal(prev[i].Source, item) {
				from = i
				break
			}
		}
		plan.Steps[to] = newStep(from, to, item)
		if from >= 0 {
			consumed[from] = true
		}
	}
	plan.Removed = unconsumed(consumed)
	return plan
}

// Reconcile applies the plan for next: create is called for every unmatched
// item in new-item order, then remove for every previous record left over, in
// previous order. The returned records are the next state, in new-item order.
func Reconcile[H any](
	prev []Record[H],
	next []any,
	equal EqualFunc,
	create func(item any, index int) H,
	remove func(Record[H]),
) []Record[H] {
	return Apply(Diff(prev, next, equal), prev, create, remove)
}

// Apply carries out a plan computed against prev.
func Apply[H any](plan Plan, prev []Record[H], create func(item any, index int) H, remove func(Record[H])) []Record[H] {
	out := make([]Record[H], len(plan.Steps))
	for _, step := range plan.Steps {
		if step.Op == OpReuse {
			out[step.To] = Record[H]{Handle: prev[step.From].Handle, Source: step.Item}
			continue
		}
		out[step.To] = Record[H]{Handle: create(step.Item, step.To), Source: step.Item}
	}
	if remove != nil {
		for _, i := range plan.Removed {
			remove(prev[i])
		}
	}
	return out
}

func unconsumed(consumed []bool) []int {
	var removed []int
	for i, used := range consumed {
		if !used {
			removed = append(removed, i)
		}
	}
	return removed
}
